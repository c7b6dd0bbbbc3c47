// Package garage holds the vehicle, service and AI-result records the rest of
// crewchief passes around.
package garage

import (
	"fmt"
	"strings"
)

// UsageType is how a car is driven.
type UsageType string

const (
	UsageDaily   UsageType = "daily"
	UsageTrack   UsageType = "track"
	UsageProject UsageType = "project"
	UsageShow    UsageType = "show"
	UsageOther   UsageType = "other"
)

// UsageTypes lists every UsageType in display order.
var UsageTypes = []UsageType{UsageDaily, UsageTrack, UsageProject, UsageShow, UsageOther}

// ServiceType is the kind of work a maintenance event records.
type ServiceType string

const (
	ServiceOilChange  ServiceType = "oil_change"
	ServiceBrakes     ServiceType = "brakes"
	ServiceTires      ServiceType = "tires"
	ServiceFluids     ServiceType = "fluids"
	ServiceInspection ServiceType = "inspection"
	ServiceMod        ServiceType = "mod"
	ServiceOther      ServiceType = "other"
)

// ServiceTypes lists every ServiceType in display order.
var ServiceTypes = []ServiceType{
	ServiceOilChange, ServiceBrakes, ServiceTires, ServiceFluids,
	ServiceInspection, ServiceMod, ServiceOther,
}

// Label returns the service type in words, e.g. "oil change".
func (s ServiceType) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Priority ranks a maintenance suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every Priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// PartCategory groups the parts fitted to a car.
type PartCategory string

const (
	PartTires      PartCategory = "tires"
	PartBrakes     PartCategory = "brakes"
	PartOil        PartCategory = "oil"
	PartFilters    PartCategory = "filters"
	PartFluids     PartCategory = "fluids"
	PartSuspension PartCategory = "suspension"
	PartBattery    PartCategory = "battery"
	PartOther      PartCategory = "other"
)

// PartCategories lists every PartCategory in display order.
var PartCategories = []PartCategory{
	PartTires, PartBrakes, PartOil, PartFilters,
	PartFluids, PartSuspension, PartBattery, PartOther,
}

// serviceParts maps a service to the part categories it usually touches.
var serviceParts = map[ServiceType][]PartCategory{
	ServiceOilChange: {PartOil, PartFilters},
	ServiceTires:     {PartTires},
	ServiceBrakes:    {PartBrakes, PartFluids},
	ServiceFluids:    {PartFluids},
}

// PartCategoriesFor returns the part categories relevant to a service, or
// nil when none are.
func PartCategoriesFor(s ServiceType) []PartCategory {
	return serviceParts[s]
}

// ParseUsageType accepts a usage type in any case.
func ParseUsageType(s string) (UsageType, error) {
	return parseEnum(s, UsageTypes, "usage type")
}

// ParseServiceType accepts a service type in any case, with spaces or
// hyphens in place of underscores.
func ParseServiceType(s string) (ServiceType, error) {
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return parseEnum(s, ServiceTypes, "service type")
}

// ParsePriority accepts a priority in any case.
func ParsePriority(s string) (Priority, error) {
	return parseEnum(s, Priorities, "priority")
}

// ParsePartCategory accepts a part category in any case.
func ParsePartCategory(s string) (PartCategory, error) {
	return parseEnum(s, PartCategories, "part category")
}

func parseEnum[E ~string](s string, all []E, what string) (E, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range all {
		if string(v) == s {
			return v, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("%w: %s %q (valid: %s)", ErrInvalid, what, s, strings.Join(Names(all), ", "))
}

// Names returns the string values of an enum list, for help text.
func Names[E ~string](all []E) []string {
	out := make([]string, len(all))
	for i, v := range all {
		out[i] = string(v)
	}
	return out
}
