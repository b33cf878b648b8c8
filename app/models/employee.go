package models

// Employee is a staff member. Email is optional but unique when present.
type Employee struct {
	EmployeeID    uint     `json:"employee_id" gorm:"primaryKey;column:employee_id"`
	FirstName     string   `json:"first_name" gorm:"size:50;not null" validate:"required"`
	LastName      string   `json:"last_name" gorm:"size:50;not null" validate:"required"`
	Position      *string  `json:"position" gorm:"size:50"`
	ContactNumber *string  `json:"contact_number" gorm:"size:20"`
	Email         *string  `json:"email" gorm:"size:100;uniqueIndex"`
	HireDate      *string  `json:"hire_date" gorm:"column:hire_date;type:date"`
	Salary        *float64 `json:"salary"`
}

func (Employee) TableName() string { return "employees" }
