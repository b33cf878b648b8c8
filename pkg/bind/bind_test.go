package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cafepos/pkg/bind"
)

type payload struct {
	Name  string  `json:"item_name" validate:"required"`
	Price float64 `json:"price" validate:"required,gte=0"`
}

func request(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestJSONDecodesAndValidates(t *testing.T) {
	var p payload
	errs, err := bind.JSON(request(`{"item_name":"Espresso","price":2.5}`), &p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if p.Name != "Espresso" || p.Price != 2.5 {
		t.Errorf("decoded %+v", p)
	}
}

func TestJSONReportsValidationFailures(t *testing.T) {
	var p payload
	errs, err := bind.JSON(request(`{"item_name":"Espresso"}`), &p)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if errs["price"] == "" {
		t.Errorf("expected price error, got %v", errs)
	}
}

func TestJSONRejectsMalformedBody(t *testing.T) {
	var p payload
	if _, err := bind.JSON(request(`{"item_name":`), &p); err == nil {
		t.Error("expected decode error for truncated JSON")
	}
	if _, err := bind.JSON(request(`"just a string"`), &p); err == nil {
		t.Error("expected decode error for non-object body")
	}
}

func TestJSONRejectsOversizedBody(t *testing.T) {
	big := `{"item_name":"` + strings.Repeat("x", 2<<20) + `","price":1}`
	var p payload
	if _, err := bind.JSON(request(big), &p); err == nil {
		t.Error("expected error for body over the size cap")
	}
}
