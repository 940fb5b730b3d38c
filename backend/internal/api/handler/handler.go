package handler

import "helpdesk-system/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	CheckIn  *CheckInHandler
	Queue    *QueueHandler
	Helpdesk *HelpdeskHandler
	Unit     *UnitHandler
	Topic    *TopicHandler
	Student  *StudentHandler
	User     *UserHandler
	Export   *ExportHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		CheckIn:  NewCheckInHandler(svc.CheckIn),
		Queue:    NewQueueHandler(svc.Queue),
		Helpdesk: NewHelpdeskHandler(svc.Helpdesk),
		Unit:     NewUnitHandler(svc.Unit),
		Topic:    NewTopicHandler(svc.Topic),
		Student:  NewStudentHandler(svc.Student),
		User:     NewUserHandler(svc.User, svc.Auth),
		Export:   NewExportHandler(svc.Export),
	}
}
