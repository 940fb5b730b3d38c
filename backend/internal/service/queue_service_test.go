package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/model"
)

type queueFixture struct {
	store    *memStore
	svc      QueueService
	helpdesk *model.Helpdesk
	unit     *model.Unit
	topic    *model.Topic
	student  *model.Nickname
}

func setupTestQueueService(t *testing.T) *queueFixture {
	t.Helper()
	freezeTime(t, testNow)
	store := newMemStore()
	h := store.addHelpdesk("Maths")
	u := store.addUnit(h.HelpdeskID, "MA101", "Calculus")
	return &queueFixture{
		store:    store,
		svc:      NewQueueService(store.repository(), zap.NewNop()),
		helpdesk: h,
		unit:     u,
		topic:    store.addTopic(u.UnitID, "Limits"),
		student:  store.addStudent("owl", ""),
	}
}

// ── Add ──

func TestQueueAdd_ExistingStudentWithCheckIn(t *testing.T) {
	f := setupTestQueueService(t)
	c := f.store.addCheckIn(f.student.StudentID, f.unit.UnitID, testNow.Add(-time.Hour))

	result, err := f.svc.Add(context.Background(), &dto.AddQueueItemRequest{
		TopicID:     f.topic.TopicID,
		Description: "stuck on epsilon-delta",
		StudentID:   intPtr(f.student.StudentID),
		CheckInID:   intPtr(c.CheckInID),
	})
	if err != nil {
		t.Fatalf("Add should succeed: %v", err)
	}

	item := f.store.items[result.ItemID]
	if item == nil || item.Status() != model.QueueStatusPending || !item.TimeAdded.Equal(testNow) {
		t.Fatalf("unexpected item: %+v", item)
	}
	if len(f.store.itemLinks) != 1 || f.store.itemLinks[0].CheckInID != c.CheckInID {
		t.Errorf("item should be linked to the check-in: %+v", f.store.itemLinks)
	}
}

func TestQueueAdd_NewNickname(t *testing.T) {
	f := setupTestQueueService(t)

	result, err := f.svc.Add(context.Background(), &dto.AddQueueItemRequest{
		TopicID:  f.topic.TopicID,
		Nickname: "newcomer",
	})
	if err != nil {
		t.Fatalf("Add should succeed: %v", err)
	}
	if f.store.students[result.StudentID].NickName != "newcomer" {
		t.Error("a student should be registered for the new nickname")
	}
}

func TestQueueAdd_DuplicateNicknameCreatesNothing(t *testing.T) {
	f := setupTestQueueService(t)

	_, err := f.svc.Add(context.Background(), &dto.AddQueueItemRequest{
		TopicID:  f.topic.TopicID,
		Nickname: "owl",
	})
	if !errors.Is(err, ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}
	if len(f.store.items) != 0 {
		t.Errorf("no queue item should be created, have %d", len(f.store.items))
	}
}

func TestQueueAdd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     func(f *queueFixture) *dto.AddQueueItemRequest
		wantErr error
	}{
		{
			name:    "no identity",
			req:     func(f *queueFixture) *dto.AddQueueItemRequest { return &dto.AddQueueItemRequest{TopicID: f.topic.TopicID} },
			wantErr: ErrNicknameRequired,
		},
		{
			name: "unknown topic",
			req: func(f *queueFixture) *dto.AddQueueItemRequest {
				return &dto.AddQueueItemRequest{TopicID: 999, StudentID: intPtr(f.student.StudentID)}
			},
			wantErr: ErrTopicNotFound,
		},
		{
			name: "unknown student",
			req: func(f *queueFixture) *dto.AddQueueItemRequest {
				return &dto.AddQueueItemRequest{TopicID: f.topic.TopicID, StudentID: intPtr(999)}
			},
			wantErr: ErrStudentNotFound,
		},
		{
			name: "unknown check-in",
			req: func(f *queueFixture) *dto.AddQueueItemRequest {
				return &dto.AddQueueItemRequest{
					TopicID:   f.topic.TopicID,
					StudentID: intPtr(f.student.StudentID),
					CheckInID: intPtr(999),
				}
			},
			wantErr: ErrQueueCheckInNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestQueueService(t)
			_, err := f.svc.Add(context.Background(), tt.req(f))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(f.store.items) != 0 {
				t.Errorf("no queue item should be created, have %d", len(f.store.items))
			}
		})
	}
}

// ── Update ──

func TestQueueUpdate(t *testing.T) {
	f := setupTestQueueService(t)
	other := f.store.addTopic(f.unit.UnitID, "Series")
	item := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow, 0)

	result, err := f.svc.Update(context.Background(), &dto.UpdateQueueItemRequest{
		ItemID:      item.ItemID,
		TopicID:     other.TopicID,
		Description: "actually series",
	})
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if result.TopicID != other.TopicID || f.store.items[item.ItemID].Description != "actually series" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestQueueUpdate_NotFound(t *testing.T) {
	f := setupTestQueueService(t)

	_, err := f.svc.Update(context.Background(), &dto.UpdateQueueItemRequest{ItemID: 999, TopicID: f.topic.TopicID})
	if !errors.Is(err, ErrQueueItemNotFound) {
		t.Errorf("expected ErrQueueItemNotFound, got %v", err)
	}
}

// ── UpdateStatus ──

func TestQueueUpdateStatus_Lifecycle(t *testing.T) {
	f := setupTestQueueService(t)
	item := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow, 0)
	helped := testNow.Add(5 * time.Minute)
	removed := testNow.Add(10 * time.Minute)

	result, err := f.svc.UpdateStatus(context.Background(), &dto.UpdateQueueItemStatusRequest{
		ItemID: item.ItemID, TimeHelped: &helped,
	})
	if err != nil {
		t.Fatalf("marking helped should succeed: %v", err)
	}
	if result.Status != string(model.QueueStatusHelped) {
		t.Errorf("expected status helped, got %s", result.Status)
	}

	result, err = f.svc.UpdateStatus(context.Background(), &dto.UpdateQueueItemStatusRequest{
		ItemID: item.ItemID, TimeRemoved: &removed,
	})
	if err != nil {
		t.Fatalf("marking removed should succeed: %v", err)
	}
	if result.Status != string(model.QueueStatusRemoved) {
		t.Errorf("expected status removed, got %s", result.Status)
	}
	if !f.store.items[item.ItemID].TimeHelped.Equal(helped) {
		t.Error("time helped must be kept after removal")
	}
}

func TestQueueUpdateStatus_Rejections(t *testing.T) {
	before := testNow.Add(-time.Minute)
	later := testNow.Add(time.Minute)

	tests := []struct {
		name    string
		prepare func(item *model.QueueItem)
		req     func(id int) *dto.UpdateQueueItemStatusRequest
		wantErr error
	}{
		{
			name:    "neither time",
			req:     func(id int) *dto.UpdateQueueItemStatusRequest { return &dto.UpdateQueueItemStatusRequest{ItemID: id} },
			wantErr: ErrQueueStatusRequired,
		},
		{
			name: "both times",
			req: func(id int) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: id, TimeHelped: &later, TimeRemoved: &later}
			},
			wantErr: ErrQueueStatusRequired,
		},
		{
			name:    "helped twice",
			prepare: func(item *model.QueueItem) { item.TimeHelped = &later },
			req: func(id int) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: id, TimeHelped: &later}
			},
			wantErr: ErrQueueStatusAlreadySet,
		},
		{
			name:    "helped after removal",
			prepare: func(item *model.QueueItem) { item.TimeRemoved = &later },
			req: func(id int) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: id, TimeHelped: &later}
			},
			wantErr: ErrQueueItemRemoved,
		},
		{
			name:    "removed twice",
			prepare: func(item *model.QueueItem) { item.TimeRemoved = &later },
			req: func(id int) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: id, TimeRemoved: &later}
			},
			wantErr: ErrQueueStatusAlreadySet,
		},
		{
			name: "helped before added",
			req: func(id int) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: id, TimeHelped: &before}
			},
			wantErr: ErrQueueTimeBeforeAdded,
		},
		{
			name: "removed before added",
			req: func(id int) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: id, TimeRemoved: &before}
			},
			wantErr: ErrQueueTimeBeforeAdded,
		},
		{
			name: "unknown item",
			req: func(_ int) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: 999, TimeHelped: &later}
			},
			wantErr: ErrQueueItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestQueueService(t)
			item := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow, 0)
			if tt.prepare != nil {
				tt.prepare(item)
			}
			snapshot := *item

			_, err := f.svc.UpdateStatus(context.Background(), tt.req(item.ItemID))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			got := f.store.items[item.ItemID]
			if got.TimeHelped != snapshot.TimeHelped || got.TimeRemoved != snapshot.TimeRemoved {
				t.Error("a rejected transition must not change the item")
			}
		})
	}
}

func TestQueueUpdate_KeepsConcurrentRemoval(t *testing.T) {
	f := setupTestQueueService(t)
	item := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow, 0)
	removedAt := testNow.Add(time.Minute)
	f.store.beforeWrite = func() { item.TimeRemoved = &removedAt }

	result, err := f.svc.Update(context.Background(), &dto.UpdateQueueItemRequest{
		ItemID: item.ItemID, TopicID: f.topic.TopicID, Description: "edited",
	})
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if got := f.store.items[item.ItemID].TimeRemoved; got == nil || !got.Equal(removedAt) {
		t.Errorf("time removed must survive an edit, got %v", got)
	}
	if result.Status != string(model.QueueStatusRemoved) {
		t.Errorf("expected the stored status removed, got %s", result.Status)
	}
}

func TestQueueUpdateStatus_LosesToConcurrentRemoval(t *testing.T) {
	tests := []struct {
		name    string
		req     func(id int, at *time.Time) *dto.UpdateQueueItemStatusRequest
		wantErr error
	}{
		{
			name: "helped",
			req: func(id int, at *time.Time) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: id, TimeHelped: at}
			},
			wantErr: ErrQueueItemRemoved,
		},
		{
			name: "removed",
			req: func(id int, at *time.Time) *dto.UpdateQueueItemStatusRequest {
				return &dto.UpdateQueueItemStatusRequest{ItemID: id, TimeRemoved: at}
			},
			wantErr: ErrQueueStatusAlreadySet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestQueueService(t)
			item := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow, 0)
			removedAt := testNow.Add(time.Minute)
			f.store.beforeWrite = func() { item.TimeRemoved = &removedAt }

			requested := testNow.Add(2 * time.Minute)
			_, err := f.svc.UpdateStatus(context.Background(), tt.req(item.ItemID, &requested))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			got := f.store.items[item.ItemID]
			if got.TimeHelped != nil || got.TimeRemoved == nil || !got.TimeRemoved.Equal(removedAt) {
				t.Errorf("the concurrent removal must stand: %+v", got)
			}
		})
	}
}

// ── List ──

func TestQueueListByHelpdesk(t *testing.T) {
	f := setupTestQueueService(t)
	first := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow.Add(-10*time.Minute), 0)
	second := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow.Add(-5*time.Minute), 0)
	gone := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow.Add(-20*time.Minute), 0)
	gone.TimeRemoved = &testNow

	otherDesk := f.store.addHelpdesk("Physics")
	pu := f.store.addUnit(otherDesk.HelpdeskID, "PH101", "Mechanics", "Forces")
	for _, topic := range f.store.topics {
		if topic.UnitID == pu.UnitID {
			f.store.addItem(f.student.StudentID, topic.TopicID, testNow, 0)
		}
	}

	result, err := f.svc.ListByHelpdesk(context.Background(), f.helpdesk.HelpdeskID)
	if err != nil {
		t.Fatalf("ListByHelpdesk should succeed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 active items, got %d", len(result))
	}
	if result[0].ItemID != first.ItemID || result[1].ItemID != second.ItemID {
		t.Errorf("items should be oldest first: %+v", result)
	}
	if result[0].Nickname != "owl" || result[0].Topic != "Limits" || result[0].Unit != "MA101" {
		t.Errorf("display fields not resolved: %+v", result[0])
	}
}

func TestQueueListByCheckIn_IncludesRemoved(t *testing.T) {
	f := setupTestQueueService(t)
	c := f.store.addCheckIn(f.student.StudentID, f.unit.UnitID, testNow.Add(-time.Hour))
	f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow.Add(-50*time.Minute), c.CheckInID)
	gone := f.store.addItem(f.student.StudentID, f.topic.TopicID, testNow.Add(-40*time.Minute), c.CheckInID)
	gone.TimeRemoved = &testNow

	result, err := f.svc.ListByCheckIn(context.Background(), c.CheckInID)
	if err != nil {
		t.Fatalf("ListByCheckIn should succeed: %v", err)
	}
	if len(result) != 2 || result[1].Status != string(model.QueueStatusRemoved) {
		t.Errorf("unexpected items: %+v", result)
	}
}

func TestQueueListByCheckIn_NotFound(t *testing.T) {
	f := setupTestQueueService(t)

	_, err := f.svc.ListByCheckIn(context.Background(), 999)
	if !errors.Is(err, ErrCheckInNotFound) {
		t.Errorf("expected ErrCheckInNotFound, got %v", err)
	}
}

// ── Check-in and queue together ──

func TestScenario_CheckOutRemovesQueuedItem(t *testing.T) {
	f := setupTestQueueService(t)
	ctx := context.Background()
	checkIns := NewCheckInService(f.store.repository(), zap.NewNop())

	in, err := checkIns.CheckIn(ctx, &dto.CheckInRequest{UnitID: f.unit.UnitID, Nickname: "alice"})
	if err != nil {
		t.Fatalf("CheckIn should succeed: %v", err)
	}
	added, err := f.svc.Add(ctx, &dto.AddQueueItemRequest{
		TopicID:   f.topic.TopicID,
		StudentID: intPtr(in.StudentID),
		CheckInID: intPtr(in.CheckInID),
	})
	if err != nil {
		t.Fatalf("Add should succeed: %v", err)
	}

	if _, err := checkIns.CheckOut(ctx, &dto.CheckOutRequest{CheckInID: in.CheckInID}); err != nil {
		t.Fatalf("CheckOut should succeed: %v", err)
	}

	linked, err := f.svc.ListByCheckIn(ctx, in.CheckInID)
	if err != nil {
		t.Fatal(err)
	}
	if len(linked) != 1 || linked[0].ItemID != added.ItemID || linked[0].Status != string(model.QueueStatusRemoved) {
		t.Errorf("the item should be listed as removed: %+v", linked)
	}

	active, err := f.svc.ListByHelpdesk(ctx, f.helpdesk.HelpdeskID)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range active {
		if item.ItemID == added.ItemID {
			t.Errorf("removed item %d is still in the active queue", added.ItemID)
		}
	}
}
