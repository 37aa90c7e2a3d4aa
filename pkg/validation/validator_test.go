package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type signup struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&signup{Email: "nope", Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	details := ToDetails(err)
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["password"] != "must be between 8 and 72 characters" {
		t.Fatalf("unexpected password detail %q", details["password"])
	}
}

func TestToDetailsInvalidJSON(t *testing.T) {
	var v signup
	err := json.Unmarshal([]byte("{"), &v)
	if got := ToDetails(err); got["payload"] == "" {
		t.Fatalf("expected payload detail, got %v", got)
	}
}

func TestToDetailsWrongType(t *testing.T) {
	var v struct {
		Published bool `json:"published"`
	}
	err := json.Unmarshal([]byte(`{"published":"yes"}`), &v)
	if got := ToDetails(err); got["published"] != "must be a bool" {
		t.Fatalf("unexpected details %v", got)
	}
}
