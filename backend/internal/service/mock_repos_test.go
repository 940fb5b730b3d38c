package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"helpdesk-system/backend/internal/model"
	"helpdesk-system/backend/internal/repository"
)

// memStore holds every table in memory. The mock repositories share one
// store so joins across tables (helpdeskunit, checkinqueueitem) behave like
// the database.
type memStore struct {
	seq int

	helpdesks map[int]*model.Helpdesk
	links     []model.HelpdeskUnit
	spans     map[int]*model.Timespan
	units     map[int]*model.Unit
	topics    map[int]*model.Topic
	students  map[int]*model.Nickname
	checkIns  map[int]*model.CheckIn
	items     map[int]*model.QueueItem
	itemLinks []model.CheckInQueueItem
	users     map[int]*model.User
	dumps     map[string]*repository.TableDump
	omitted   map[string][]string

	// beforeWrite runs at the start of every guarded single-row write, so a
	// test can commit a competing change between a service's read and write.
	beforeWrite func()
}

func (m *memStore) racingWrite() {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func newMemStore() *memStore {
	return &memStore{
		helpdesks: make(map[int]*model.Helpdesk),
		spans:     make(map[int]*model.Timespan),
		units:     make(map[int]*model.Unit),
		topics:    make(map[int]*model.Topic),
		students:  make(map[int]*model.Nickname),
		checkIns:  make(map[int]*model.CheckIn),
		items:     make(map[int]*model.QueueItem),
		users:     make(map[int]*model.User),
		dumps:     make(map[string]*repository.TableDump),
		omitted:   make(map[string][]string),
	}
}

func (m *memStore) nextID() int {
	m.seq++
	return m.seq
}

// repository builds an aggregate without a db, so Transaction runs inline.
func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Helpdesk: &mockHelpdeskRepo{m},
		Timespan: &mockTimespanRepo{m},
		Unit:     &mockUnitRepo{m},
		Topic:    &mockTopicRepo{m},
		Student:  &mockStudentRepo{m},
		CheckIn:  &mockCheckInRepo{m},
		Queue:    &mockQueueRepo{m},
		User:     &mockUserRepo{m},
		Export:   &mockExportRepo{m},
	}
}

func (m *memStore) unitIDsOf(helpdeskID int) []int {
	var ids []int
	for _, l := range m.links {
		if l.HelpdeskID == helpdeskID {
			ids = append(ids, l.UnitID)
		}
	}
	sort.Ints(ids)
	return ids
}

func containsInt(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// ── seed helpers ──

func (m *memStore) addHelpdesk(name string) *model.Helpdesk {
	h := &model.Helpdesk{HelpdeskID: m.nextID(), Name: name, HasCheckIn: true, HasQueue: true}
	m.helpdesks[h.HelpdeskID] = h
	return h
}

func (m *memStore) addUnit(helpdeskID int, code, name string, topics ...string) *model.Unit {
	u := &model.Unit{UnitID: m.nextID(), Code: code, Name: name}
	m.units[u.UnitID] = u
	m.links = append(m.links, model.HelpdeskUnit{HelpdeskUnitID: m.nextID(), HelpdeskID: helpdeskID, UnitID: u.UnitID})
	for _, t := range topics {
		m.addTopic(u.UnitID, t)
	}
	return u
}

func (m *memStore) addTopic(unitID int, name string) *model.Topic {
	t := &model.Topic{TopicID: m.nextID(), UnitID: unitID, Name: name}
	m.topics[t.TopicID] = t
	return t
}

func (m *memStore) addStudent(nickname, sid string) *model.Nickname {
	s := &model.Nickname{StudentID: m.nextID(), NickName: nickname, SID: sid}
	m.students[s.StudentID] = s
	return s
}

func (m *memStore) addCheckIn(studentID, unitID int, at time.Time) *model.CheckIn {
	c := &model.CheckIn{CheckInID: m.nextID(), StudentID: studentID, UnitID: unitID, CheckInTime: at}
	m.checkIns[c.CheckInID] = c
	return c
}

func (m *memStore) addItem(studentID, topicID int, at time.Time, checkInID int) *model.QueueItem {
	q := &model.QueueItem{ItemID: m.nextID(), StudentID: studentID, TopicID: topicID, TimeAdded: at}
	m.items[q.ItemID] = q
	if checkInID > 0 {
		m.itemLinks = append(m.itemLinks, model.CheckInQueueItem{CheckInQueueItemID: m.nextID(), CheckInID: checkInID, QueueItemID: q.ItemID})
	}
	return q
}

// ── Mock HelpdeskRepository ──

type mockHelpdeskRepo struct{ m *memStore }

func (r *mockHelpdeskRepo) Create(_ context.Context, h *model.Helpdesk) error {
	h.HelpdeskID = r.m.nextID()
	r.m.helpdesks[h.HelpdeskID] = h
	return nil
}

func (r *mockHelpdeskRepo) GetByID(_ context.Context, id int) (*model.Helpdesk, error) {
	if h, ok := r.m.helpdesks[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockHelpdeskRepo) List(_ context.Context, activeOnly bool) ([]model.Helpdesk, error) {
	var result []model.Helpdesk
	for _, h := range r.m.helpdesks {
		if activeOnly && h.IsDeleted {
			continue
		}
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *mockHelpdeskRepo) Update(_ context.Context, h *model.Helpdesk) error {
	cp := *h
	r.m.helpdesks[h.HelpdeskID] = &cp
	return nil
}

func (r *mockHelpdeskRepo) SoftDelete(_ context.Context, id int) error {
	if h, ok := r.m.helpdesks[id]; ok {
		h.IsDeleted = true
	}
	return nil
}

func (r *mockHelpdeskRepo) LinkUnit(_ context.Context, helpdeskID, unitID int) error {
	r.m.links = append(r.m.links, model.HelpdeskUnit{HelpdeskUnitID: r.m.nextID(), HelpdeskID: helpdeskID, UnitID: unitID})
	return nil
}

func (r *mockHelpdeskRepo) ListUnitIDs(_ context.Context, helpdeskID int) ([]int, error) {
	return r.m.unitIDsOf(helpdeskID), nil
}

// ── Mock TimespanRepository ──

type mockTimespanRepo struct{ m *memStore }

func (r *mockTimespanRepo) Create(_ context.Context, span *model.Timespan) error {
	span.SpanID = r.m.nextID()
	cp := *span
	r.m.spans[span.SpanID] = &cp
	return nil
}

func (r *mockTimespanRepo) GetByID(_ context.Context, id int) (*model.Timespan, error) {
	if s, ok := r.m.spans[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTimespanRepo) GetByName(_ context.Context, name string) (*model.Timespan, error) {
	for _, s := range r.m.spans {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTimespanRepo) List(_ context.Context) ([]model.Timespan, error) {
	var result []model.Timespan
	for _, s := range r.m.spans {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (r *mockTimespanRepo) Update(_ context.Context, span *model.Timespan) error {
	cp := *span
	r.m.spans[span.SpanID] = &cp
	return nil
}

func (r *mockTimespanRepo) Delete(_ context.Context, id int) error {
	delete(r.m.spans, id)
	return nil
}

// ── Mock UnitRepository ──

type mockUnitRepo struct{ m *memStore }

func (r *mockUnitRepo) Create(_ context.Context, unit *model.Unit) error {
	unit.UnitID = r.m.nextID()
	cp := *unit
	cp.Topics = nil
	r.m.units[unit.UnitID] = &cp
	return nil
}

func (r *mockUnitRepo) GetByID(_ context.Context, id int) (*model.Unit, error) {
	if u, ok := r.m.units[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUnitRepo) ListByHelpdesk(_ context.Context, helpdeskID int, activeOnly bool) ([]model.Unit, error) {
	var result []model.Unit
	for _, id := range r.m.unitIDsOf(helpdeskID) {
		u := *r.m.units[id]
		if activeOnly && u.IsDeleted {
			continue
		}
		u.Topics = nil
		for _, t := range r.m.topics {
			if t.UnitID == id && !t.IsDeleted {
				u.Topics = append(u.Topics, *t)
			}
		}
		sort.Slice(u.Topics, func(i, j int) bool { return u.Topics[i].TopicID < u.Topics[j].TopicID })
		result = append(result, u)
	}
	return result, nil
}

func (r *mockUnitRepo) Update(_ context.Context, unit *model.Unit) error {
	cp := *unit
	cp.Topics = nil
	r.m.units[unit.UnitID] = &cp
	return nil
}

func (r *mockUnitRepo) SoftDelete(_ context.Context, id int) error {
	if u, ok := r.m.units[id]; ok {
		u.IsDeleted = true
	}
	return nil
}

// ── Mock TopicRepository ──

type mockTopicRepo struct{ m *memStore }

func (r *mockTopicRepo) Create(_ context.Context, topic *model.Topic) error {
	topic.TopicID = r.m.nextID()
	cp := *topic
	r.m.topics[topic.TopicID] = &cp
	return nil
}

func (r *mockTopicRepo) GetByID(_ context.Context, id int) (*model.Topic, error) {
	if t, ok := r.m.topics[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTopicRepo) ListByUnit(_ context.Context, unitID int, includeDeleted bool) ([]model.Topic, error) {
	var result []model.Topic
	for _, t := range r.m.topics {
		if t.UnitID != unitID || (t.IsDeleted && !includeDeleted) {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TopicID < result[j].TopicID })
	return result, nil
}

func (r *mockTopicRepo) ListIDsByUnits(_ context.Context, unitIDs []int) ([]int, error) {
	var ids []int
	for _, t := range r.m.topics {
		if containsInt(unitIDs, t.UnitID) {
			ids = append(ids, t.TopicID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *mockTopicRepo) Update(_ context.Context, topic *model.Topic) error {
	cp := *topic
	cp.Unit = nil
	r.m.topics[topic.TopicID] = &cp
	return nil
}

func (r *mockTopicRepo) SoftDeleteByUnit(_ context.Context, unitID int) error {
	for _, t := range r.m.topics {
		if t.UnitID == unitID {
			t.IsDeleted = true
		}
	}
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct{ m *memStore }

func (r *mockStudentRepo) Create(_ context.Context, student *model.Nickname) error {
	student.StudentID = r.m.nextID()
	cp := *student
	r.m.students[student.StudentID] = &cp
	return nil
}

func (r *mockStudentRepo) GetByID(_ context.Context, id int) (*model.Nickname, error) {
	if s, ok := r.m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockStudentRepo) GetByNickname(_ context.Context, nickname string) (*model.Nickname, error) {
	for _, s := range r.m.students {
		if s.NickName == nickname {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockStudentRepo) GetBySID(_ context.Context, sid string) (*model.Nickname, error) {
	for _, s := range r.m.students {
		if s.SID == sid {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockStudentRepo) List(_ context.Context) ([]model.Nickname, error) {
	var result []model.Nickname
	for _, s := range r.m.students {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

func (r *mockStudentRepo) Update(_ context.Context, student *model.Nickname) error {
	cp := *student
	r.m.students[student.StudentID] = &cp
	return nil
}

// ── Mock CheckInRepository ──

type mockCheckInRepo struct{ m *memStore }

func (r *mockCheckInRepo) Create(_ context.Context, checkIn *model.CheckIn) error {
	checkIn.CheckInID = r.m.nextID()
	cp := *checkIn
	r.m.checkIns[checkIn.CheckInID] = &cp
	return nil
}

func (r *mockCheckInRepo) GetByID(_ context.Context, id int) (*model.CheckIn, error) {
	if c, ok := r.m.checkIns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCheckInRepo) Close(_ context.Context, id int, at time.Time, forced *bool) (int64, error) {
	r.m.racingWrite()
	c, ok := r.m.checkIns[id]
	if !ok || !c.IsOpen() {
		return 0, nil
	}
	t := at
	c.CheckoutTime = &t
	if forced != nil {
		f := *forced
		c.ForcedCheckout = &f
	}
	return 1, nil
}

func (r *mockCheckInRepo) ListOpenByUnits(_ context.Context, unitIDs []int) ([]model.CheckIn, error) {
	var result []model.CheckIn
	for _, c := range r.m.checkIns {
		if !containsInt(unitIDs, c.UnitID) || !c.IsOpen() {
			continue
		}
		if c.ForcedCheckout != nil && *c.ForcedCheckout {
			continue
		}
		cp := *c
		if s, ok := r.m.students[c.StudentID]; ok {
			student := *s
			cp.Student = &student
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckInTime.Before(result[j].CheckInTime) })
	return result, nil
}

func (r *mockCheckInRepo) ForceCloseOpenByUnits(_ context.Context, unitIDs []int, at time.Time) (int64, error) {
	var n int64
	for _, c := range r.m.checkIns {
		if containsInt(unitIDs, c.UnitID) && c.IsOpen() {
			t, forced := laterOf(at, c.CheckInTime), true
			c.CheckoutTime = &t
			c.ForcedCheckout = &forced
			n++
		}
	}
	return n, nil
}

func (r *mockCheckInRepo) LinkQueueItem(_ context.Context, checkInID, queueItemID int) error {
	r.m.itemLinks = append(r.m.itemLinks, model.CheckInQueueItem{
		CheckInQueueItemID: r.m.nextID(),
		CheckInID:          checkInID,
		QueueItemID:        queueItemID,
	})
	return nil
}

// ── Mock QueueRepository ──

type mockQueueRepo struct{ m *memStore }

func (r *mockQueueRepo) Create(_ context.Context, item *model.QueueItem) error {
	item.ItemID = r.m.nextID()
	cp := *item
	r.m.items[item.ItemID] = &cp
	return nil
}

func (r *mockQueueRepo) GetByID(_ context.Context, id int) (*model.QueueItem, error) {
	if q, ok := r.m.items[id]; ok {
		cp := r.withDetails(q)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockQueueRepo) UpdateDetails(_ context.Context, id, topicID int, description string) (int64, error) {
	r.m.racingWrite()
	q, ok := r.m.items[id]
	if !ok {
		return 0, nil
	}
	q.TopicID, q.Description = topicID, description
	return 1, nil
}

func (r *mockQueueRepo) MarkHelped(_ context.Context, id int, at time.Time) (int64, error) {
	r.m.racingWrite()
	q, ok := r.m.items[id]
	if !ok || q.TimeHelped != nil || q.TimeRemoved != nil {
		return 0, nil
	}
	t := at
	q.TimeHelped = &t
	return 1, nil
}

func (r *mockQueueRepo) MarkRemoved(_ context.Context, id int, at time.Time) (int64, error) {
	r.m.racingWrite()
	q, ok := r.m.items[id]
	if !ok || q.TimeRemoved != nil {
		return 0, nil
	}
	t := at
	q.TimeRemoved = &t
	return 1, nil
}

func (r *mockQueueRepo) ListActiveByTopics(_ context.Context, topicIDs []int) ([]model.QueueItem, error) {
	var result []model.QueueItem
	for _, q := range r.m.items {
		if containsInt(topicIDs, q.TopicID) && q.TimeRemoved == nil {
			result = append(result, r.withDetails(q))
		}
	}
	sortItems(result)
	return result, nil
}

func (r *mockQueueRepo) ListByCheckIn(_ context.Context, checkInID int, includeRemoved bool) ([]model.QueueItem, error) {
	var result []model.QueueItem
	for _, id := range r.linkedItems(checkInID) {
		q := r.m.items[id]
		if q.TimeRemoved != nil && !includeRemoved {
			continue
		}
		result = append(result, r.withDetails(q))
	}
	sortItems(result)
	return result, nil
}

func (r *mockQueueRepo) RemovePendingByCheckIn(_ context.Context, checkInID int, at time.Time) (int64, error) {
	var n int64
	for _, id := range r.linkedItems(checkInID) {
		q := r.m.items[id]
		if q.TimeRemoved == nil {
			t := laterOf(at, q.TimeAdded)
			q.TimeRemoved = &t
			n++
		}
	}
	return n, nil
}

func (r *mockQueueRepo) RemovePendingByTopics(_ context.Context, topicIDs []int, at time.Time) (int64, error) {
	var n int64
	for _, q := range r.m.items {
		if containsInt(topicIDs, q.TopicID) && q.TimeRemoved == nil {
			t := laterOf(at, q.TimeAdded)
			q.TimeRemoved = &t
			n++
		}
	}
	return n, nil
}

func (r *mockQueueRepo) linkedItems(checkInID int) []int {
	var ids []int
	for _, l := range r.m.itemLinks {
		if l.CheckInID == checkInID {
			if _, ok := r.m.items[l.QueueItemID]; ok {
				ids = append(ids, l.QueueItemID)
			}
		}
	}
	return ids
}

func (r *mockQueueRepo) withDetails(q *model.QueueItem) model.QueueItem {
	cp := *q
	if s, ok := r.m.students[q.StudentID]; ok {
		student := *s
		cp.Student = &student
	}
	if t, ok := r.m.topics[q.TopicID]; ok {
		topic := *t
		if u, ok := r.m.units[t.UnitID]; ok {
			unit := *u
			topic.Unit = &unit
		}
		cp.Topic = &topic
	}
	return cp
}

func sortItems(items []model.QueueItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].TimeAdded.Equal(items[j].TimeAdded) {
			return items[i].TimeAdded.Before(items[j].TimeAdded)
		}
		return items[i].ItemID < items[j].ItemID
	})
}

// ── Mock UserRepository ──

type mockUserRepo struct{ m *memStore }

func (r *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.UserID = r.m.nextID()
	cp := *user
	r.m.users[user.UserID] = &cp
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id int) (*model.User, error) {
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range r.m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (r *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	r.m.users[user.UserID] = &cp
	return nil
}

func (r *mockUserRepo) Delete(_ context.Context, id int) error {
	delete(r.m.users, id)
	return nil
}

func (r *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.m.users)), nil
}

// ── Mock ExportRepository ──

type mockExportRepo struct{ m *memStore }

func (r *mockExportRepo) Dump(_ context.Context, table string, omit ...string) (*repository.TableDump, error) {
	r.m.omitted[table] = omit
	if d, ok := r.m.dumps[table]; ok {
		return d, nil
	}
	return &repository.TableDump{Name: table, Columns: []string{"id"}}, nil
}
