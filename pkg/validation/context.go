package validation

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/netex"
)

const commonFilePrefix = "_"

// Context carries what every rule needs to know about the file being validated
type Context struct {
	ReportID  string
	Codespace string
	FileName  string
	Index     *netex.Index

	StopPoints StopPointResolver
}

// StopPointResolver locates the scheduled stop points used by the file
type StopPointResolver interface {
	HasSharedStopData() bool
	QuayID(stopPoint model.ScheduledStopPointID) (model.QuayID, bool)
	Coordinates(stopPoint model.ScheduledStopPointID) (model.QuayCoordinates, bool)
	StopPlaceMode(stopPoint model.ScheduledStopPointID) (model.TransportModeAndSubMode, bool)
	IsArea(stopPoint model.ScheduledStopPointID) bool
}

// Validator is one rule family run against a file
type Validator interface {
	Name() string
	Validate(ctx context.Context, validationContext *Context) ([]Entry, error)
}

func NewContext(reportID string, codespace string, index *netex.Index) *Context {
	return &Context{
		ReportID:  reportID,
		Codespace: codespace,
		FileName:  index.FileName,
		Index:     index,
	}
}

func (c *Context) IsCommonFile() bool {
	return IsCommonFile(c.FileName)
}

// IsCommonFile reports whether a file holds shared data, which by convention is named with a leading underscore
func IsCommonFile(fileName string) bool {
	return strings.HasPrefix(filepath.Base(fileName), commonFilePrefix)
}

// Entry builds a finding for an entity defined in this file
func (c *Context) Entry(rule Rule, entityID string, args ...any) Entry {
	return rule.Entry(c.ReportID, c.FileName, entityID, c.Index.Location(entityID), args...)
}
