package garage

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every validation failure in this package.
var ErrInvalid = errors.New("invalid value")

// DateLayout is how service dates are written and parsed.
const DateLayout = "2006-01-02"

// Car is a vehicle in the garage.
type Car struct {
	ID              int64     `json:"id"`
	Nickname        string    `json:"nickname,omitempty"`
	Year            int       `json:"year" validate:"gte=1900,lte=2100"`
	Make            string    `json:"make" validate:"required"`
	Model           string    `json:"model" validate:"required"`
	Trim            string    `json:"trim,omitempty"`
	VIN             string    `json:"vin,omitempty"`
	UsageType       UsageType `json:"usage_type" validate:"required,oneof=daily track project show other"`
	CurrentOdometer *int      `json:"current_odometer,omitempty" validate:"omitempty,gte=0"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DisplayName returns "YEAR MAKE MODEL", prefixed by the nickname when set.
func (c Car) DisplayName() string {
	base := fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
	if c.Nickname != "" {
		return fmt.Sprintf("%s (%s)", c.Nickname, base)
	}
	return base
}

// MaintenanceEvent is one logged service.
type MaintenanceEvent struct {
	ID          int64       `json:"id"`
	CarID       int64       `json:"car_id" validate:"gt=0"`
	ServiceDate time.Time   `json:"service_date" validate:"required"`
	Odometer    *int        `json:"odometer,omitempty" validate:"omitempty,gte=0"`
	ServiceType ServiceType `json:"service_type" validate:"required,oneof=oil_change brakes tires fluids inspection mod other"`
	Description string      `json:"description,omitempty"`
	Parts       string      `json:"parts,omitempty"`
	Cost        *float64    `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Location    string      `json:"location,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CarPart is a part or fluid fitted to a car.
type CarPart struct {
	ID         int64        `json:"id"`
	CarID      int64        `json:"car_id" validate:"gt=0"`
	Category   PartCategory `json:"part_category" validate:"required,oneof=tires brakes oil filters fluids suspension battery other"`
	Brand      string       `json:"brand,omitempty"`
	PartNumber string       `json:"part_number,omitempty"`
	SizeSpec   string       `json:"size_spec,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// MaintenanceInterval is how often a service should be repeated on a car.
// At most one exists per car and service type.
type MaintenanceInterval struct {
	ID                  int64       `json:"id"`
	CarID               int64       `json:"car_id" validate:"gt=0"`
	ServiceType         ServiceType `json:"service_type" validate:"required,oneof=oil_change brakes tires fluids inspection mod other"`
	IntervalMiles       *int        `json:"interval_miles,omitempty" validate:"omitempty,gt=0"`
	IntervalMonths      *int        `json:"interval_months,omitempty" validate:"omitempty,gt=0"`
	LastServiceDate     *time.Time  `json:"last_service_date,omitempty"`
	LastServiceOdometer *int        `json:"last_service_odometer,omitempty" validate:"omitempty,gte=0"`
	Notes               string      `json:"notes,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// Snapshot is the garage state handed to the AI prompts.
type Snapshot struct {
	Cars   []Car              `json:"cars"`
	Events []MaintenanceEvent `json:"maintenance_events"`
	Parts  []CarPart          `json:"parts,omitempty"`
}

// EventsFor returns the events logged against carID, in snapshot order.
func (s Snapshot) EventsFor(carID int64) []MaintenanceEvent {
	var out []MaintenanceEvent
	for _, e := range s.Events {
		if e.CarID == carID {
			out = append(out, e)
		}
	}
	return out
}

// PartsFor returns the parts fitted to carID.
func (s Snapshot) PartsFor(carID int64) []CarPart {
	var out []CarPart
	for _, p := range s.Parts {
		if p.CarID == carID {
			out = append(out, p)
		}
	}
	return out
}

// ForCar narrows the snapshot to one car and its history.
func (s Snapshot) ForCar(carID int64) Snapshot {
	out := Snapshot{Events: s.EventsFor(carID), Parts: s.PartsFor(carID)}
	for _, c := range s.Cars {
		if c.ID == carID {
			out.Cars = append(out.Cars, c)
		}
	}
	return out
}

// Suggestion is the AI's maintenance advice for one car.
type Suggestion struct {
	CarID     int64    `json:"car_id"`
	CarLabel  string   `json:"car_label"`
	Actions   []string `json:"suggested_actions"`
	Priority  Priority `json:"priority"`
	Reasoning string   `json:"reasoning"`
}

// Checklist is the AI's track day preparation list for one car.
type Checklist struct {
	CarLabel         string   `json:"car_label"`
	CriticalItems    []string `json:"critical_items"`
	RecommendedItems []string `json:"recommended_items"`
	Notes            string   `json:"notes,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a record's field constraints.
func Validate(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
