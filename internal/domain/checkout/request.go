// internal/domain/checkout/request.go
package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the checkout form submitted by the storefront
type CreateOrderRequest struct {
	Items    []ItemInput   `json:"items" validate:"required,min=1,dive"`
	Customer CustomerInput `json:"customer"`
	Shipping ShippingInput `json:"shipping"`
	Payment  PaymentInput  `json:"payment"`
	Notes    string        `json:"notes" validate:"max=500"`
}

// ItemInput is one cart line as the client sees it
type ItemInput struct {
	ProductID uint            `json:"productId" validate:"required"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"min=1"`
}

// CustomerInput holds contact details
type CustomerInput struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"required,bdphone"`
}

// ShippingInput holds the delivery address
type ShippingInput struct {
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	District   string `json:"district" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=20"`
	Landmark   string `json:"landmark" validate:"omitempty,max=255"`
}

// PaymentInput holds the chosen method and wallet number
type PaymentInput struct {
	Method       string `json:"method" validate:"required,oneof=cod cash_on_delivery bkash nagad rocket"`
	MobileNumber string `json:"mobileNumber" validate:"omitempty,bdphone"`
}

var bdPhonePattern = regexp.MustCompile(`^(\+88)?01[3-9]\d{8}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("bdphone", func(fl validator.FieldLevel) bool {
		return bdPhonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register bdphone validation: %v", err))
	}

	return v
}

// IsBangladeshiMobile reports whether phone is a valid BD mobile number
func IsBangladeshiMobile(phone string) bool {
	return bdPhonePattern.MatchString(phone)
}

// PaymentMethod maps the submitted method onto the stored enum. "cod" is an alias.
func (p PaymentInput) PaymentMethod() order.PaymentMethod {
	if p.Method == "cod" {
		return order.PaymentMethodCashOnDelivery
	}
	return order.PaymentMethod(p.Method)
}

func (r *CreateOrderRequest) normalize() {
	trim := strings.TrimSpace
	r.Customer.FirstName = trim(r.Customer.FirstName)
	r.Customer.LastName = trim(r.Customer.LastName)
	r.Customer.Email = trim(r.Customer.Email)
	r.Customer.Phone = trim(r.Customer.Phone)
	r.Shipping.Address = trim(r.Shipping.Address)
	r.Shipping.City = trim(r.Shipping.City)
	r.Shipping.District = trim(r.Shipping.District)
	r.Shipping.PostalCode = trim(r.Shipping.PostalCode)
	r.Shipping.Landmark = trim(r.Shipping.Landmark)
	r.Payment.Method = strings.ToLower(trim(r.Payment.Method))
	r.Payment.MobileNumber = trim(r.Payment.MobileNumber)
	r.Notes = trim(r.Notes)
}

// Validate checks every precondition and reports the first offending field
// by its JSON path, e.g. "customer.phone" or "items[1].quantity".
func (r *CreateOrderRequest) Validate() error {
	r.normalize()

	if len(r.Items) == 0 {
		return shared.NewValidationError("items", "Cart is empty")
	}

	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return shared.NewValidationError(fieldPath(fe), validationMessage(fe))
		}
		return fmt.Errorf("failed to validate order request: %w", err)
	}

	for i, item := range r.Items {
		if item.Price.IsNegative() {
			return shared.NewValidationError(fmt.Sprintf("items[%d].price", i), "Must not be negative")
		}
	}

	if r.Payment.PaymentMethod().IsMobileWallet() && r.Payment.MobileNumber == "" {
		return shared.NewValidationError("payment.mobileNumber", fmt.Sprintf("Mobile number is required for %s", r.Payment.Method))
	}

	return nil
}

// fieldPath drops the root struct name from the validator namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "bdphone":
		return "Must be a valid Bangladeshi mobile number"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Must contain at least " + fe.Param() + " item"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	default:
		return "Invalid value"
	}
}
