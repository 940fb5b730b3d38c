package service

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

const calendarProductID = "-//helpdesk-system//timespans//EN"

// TimespanCalendar renders the helpdesk's timespans as an iCalendar
// (RFC 5545) document, one VEVENT per timespan. Event UIDs are stable so
// calendar clients update rather than duplicate on refresh.
func (s *helpdeskService) TimespanCalendar(ctx context.Context, helpdeskID int) (string, error) {
	h, err := s.getHelpdesk(ctx, s.repo, helpdeskID)
	if err != nil {
		return "", err
	}

	spans, err := s.repo.Timespan.List(ctx)
	if err != nil {
		s.logger.Error("list timespans failed", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(h.Name)

	stamp := timeNow()
	for i := range spans {
		span := &spans[i]
		if span.HelpdeskID != helpdeskID {
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("timespan-%d@helpdesk-system", span.SpanID))
		event.SetDtStampTime(stamp)
		event.SetSummary(span.Name)
		event.SetStartAt(span.StartDate.UTC())
		event.SetEndAt(span.EndDate.UTC())
	}

	return cal.Serialize(), nil
}
