package commondata

import (
	"fmt"
	"strings"

	"github.com/travigo/netex-validator/pkg/model"
)

type ServiceLinkEndpoints struct {
	From model.ScheduledStopPointID
	To   model.ScheduledStopPointID
}

func (e ServiceLinkEndpoints) String() string {
	return string(e.From) + model.Separator + string(e.To)
}

func ParseServiceLinkEndpoints(value string) (ServiceLinkEndpoints, error) {
	parts := strings.Split(value, model.Separator)
	if len(parts) != 2 {
		return ServiceLinkEndpoints{}, fmt.Errorf("%w: service link %q", model.ErrMalformedValue, value)
	}

	return ServiceLinkEndpoints{
		From: model.ScheduledStopPointID(parts[0]),
		To:   model.ScheduledStopPointID(parts[1]),
	}, nil
}
