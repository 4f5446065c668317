package validation

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

type Rule struct {
	Code     string
	Severity Severity
	Message  string
}

func (r Rule) Entry(reportID string, fileName string, entityID string, line int, args ...any) Entry {
	return Entry{
		ReportID:  reportID,
		RuleCode:  r.Code,
		Severity:  r.Severity,
		Message:   fmt.Sprintf(r.Message, args...),
		EntityID:  entityID,
		FileName:  fileName,
		Line:      line,
		CreatedAt: time.Now(),
	}
}

// Entry is one finding
type Entry struct {
	ReportID  string    `json:"report_id" bson:"report_id"`
	RuleCode  string    `json:"rule" bson:"rule"`
	Severity  Severity  `json:"severity" bson:"severity"`
	Message   string    `json:"message" bson:"message"`
	EntityID  string    `json:"entity_id" bson:"entity_id"`
	FileName  string    `json:"file_name" bson:"file_name"`
	Line      int       `json:"line,omitempty" bson:"line,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

var (
	PassingTimeIncomplete = Rule{
		Code:     "PASSING_TIME_INCOMPLETE",
		Severity: SeverityError,
		Message:  "ServiceJourney has incomplete passing time at stop point %s",
	}
	PassingTimeInconsistent = Rule{
		Code:     "PASSING_TIME_INCONSISTENT",
		Severity: SeverityError,
		Message:  "ServiceJourney has inconsistent passing time at stop point %s",
	}
	PassingTimeNonIncreasing = Rule{
		Code:     "PASSING_TIME_NON_INCREASING",
		Severity: SeverityError,
		Message:  "ServiceJourney has non-increasing passing time at stop point %s",
	}

	StopPointsTooClose = Rule{
		Code:     "STOP_POINTS_TOO_CLOSE",
		Severity: SeverityWarning,
		Message:  "Stop points %s and %s are only %.0f m apart, expected at least %.0f m for %s",
	}
	StopPointsTooFar = Rule{
		Code:     "STOP_POINTS_TOO_FAR",
		Severity: SeverityWarning,
		Message:  "Stop points %s and %s are %.0f m apart, expected at most %.0f m for %s",
	}

	SameDepartureArrivalTime = Rule{
		Code:     "SAME_DEPARTURE_ARRIVAL_TIME",
		Severity: SeverityWarning,
		Message:  "Same departure and arrival time between stop points %s and %s",
	}
	LowSpeed = Rule{
		Code:     "LOW_SPEED",
		Severity: SeverityWarning,
		Message:  "Low speed of %.1f km/h between stop points %s and %s, expected at least %.0f km/h",
	}
	HighSpeedWarning = Rule{
		Code:     "HIGH_SPEED_WARNING",
		Severity: SeverityWarning,
		Message:  "High speed of %.1f km/h between stop points %s and %s, expected at most %.0f km/h",
	}
	HighSpeed = Rule{
		Code:     "HIGH_SPEED",
		Severity: SeverityError,
		Message:  "Speed of %.1f km/h between stop points %s and %s exceeds maximum %.0f km/h",
	}

	InterchangeWaitTimeWarning = Rule{
		Code:     "INTERCHANGE_WAIT_TIME_WARNING",
		Severity: SeverityWarning,
		Message:  "Interchange wait time %s exceeds %s",
	}
	// InterchangeWaitTimeMax stays a warning, matching existing reports
	InterchangeWaitTimeMax = Rule{
		Code:     "INTERCHANGE_WAIT_TIME_MAX",
		Severity: SeverityWarning,
		Message:  "Interchange wait time %s exceeds maximum %s",
	}
	InterchangeNoSharedActiveDate = Rule{
		Code:     "INTERCHANGE_NO_SHARED_ACTIVE_DATE",
		Severity: SeverityWarning,
		Message:  "Interchange between %s and %s has no shared active date",
	}

	NetexIDDuplicated = Rule{
		Code:     "NETEX_ID_DUPLICATED",
		Severity: SeverityWarning,
		Message:  "Id %s is already defined in another file of the dataset",
	}
	NetexReferenceUnresolved = Rule{
		Code:     "NETEX_REFERENCE_UNRESOLVED",
		Severity: SeverityError,
		Message:  "Reference to %s %s cannot be resolved",
	}
	TransportModeMismatch = Rule{
		Code:     "TRANSPORT_MODE_MISMATCH",
		Severity: SeverityWarning,
		Message:  "Line mode %s does not match stop place mode %s at stop point %s",
	}
)

// Rules lists every rule this validator can emit
func Rules() []Rule {
	return []Rule{
		PassingTimeIncomplete,
		PassingTimeInconsistent,
		PassingTimeNonIncreasing,
		StopPointsTooClose,
		StopPointsTooFar,
		SameDepartureArrivalTime,
		LowSpeed,
		HighSpeedWarning,
		HighSpeed,
		InterchangeWaitTimeWarning,
		InterchangeWaitTimeMax,
		InterchangeNoSharedActiveDate,
		NetexIDDuplicated,
		NetexReferenceUnresolved,
		TransportModeMismatch,
	}
}
