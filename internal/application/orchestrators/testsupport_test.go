package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	emailAdapter "fitplan/internal/adapters/email"
	"fitplan/internal/domain/account"
	"fitplan/internal/domain/event"
)

var testTime = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

// seqID returns a generator producing id-1, id-2, ...
func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// mockPlanStore is a map-backed store covering every plan store interface.
type mockPlanStore struct {
	events     map[string]event.Event
	milestones map[string]event.Milestone
	upserts    int
	failUpsert error
}

func newMockPlanStore() *mockPlanStore {
	return &mockPlanStore{
		events:     make(map[string]event.Event),
		milestones: make(map[string]event.Milestone),
	}
}

func (m *mockPlanStore) UpsertPlan(_ context.Context, events []event.Event, milestones []event.Milestone) error {
	if m.failUpsert != nil {
		return m.failUpsert
	}
	m.upserts++
	for _, e := range events {
		m.events[e.ID] = e
	}
	for _, ms := range milestones {
		m.milestones[ms.ID] = ms
	}
	return nil
}

func (m *mockPlanStore) GetEventByID(_ context.Context, id string) (event.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return event.Event{}, errors.New("not found")
	}
	return e, nil
}

func (m *mockPlanStore) SaveEvent(_ context.Context, e event.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockPlanStore) GetMilestonesByEvent(_ context.Context, eventID string) ([]event.Milestone, error) {
	var out []event.Milestone
	for _, ms := range m.milestones {
		if ms.EventID == eventID {
			out = append(out, ms)
		}
	}
	return out, nil
}

func (m *mockPlanStore) GetMilestoneByID(_ context.Context, id string) (event.Milestone, error) {
	ms, ok := m.milestones[id]
	if !ok {
		return event.Milestone{}, errors.New("not found")
	}
	return ms, nil
}

func (m *mockPlanStore) SaveMilestone(_ context.Context, ms event.Milestone) error {
	m.milestones[ms.ID] = ms
	return nil
}

func (m *mockPlanStore) GetMilestonesDueBetween(_ context.Context, from, to time.Time) ([]event.Milestone, error) {
	var out []event.Milestone
	for _, ms := range m.milestones {
		if !ms.AbsoluteDate.Before(from) && !ms.AbsoluteDate.After(to) {
			out = append(out, ms)
		}
	}
	return out, nil
}

// mockAccountStore is a map-backed account store.
type mockAccountStore struct {
	accounts map[string]account.Account // by ID
	tokens   map[string]account.ActivationToken
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{
		accounts: make(map[string]account.Account),
		tokens:   make(map[string]account.ActivationToken),
	}
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, errors.New("not found")
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) SaveActivationToken(_ context.Context, tok account.ActivationToken) error {
	m.tokens[tok.Token] = tok
	return nil
}

func (m *mockAccountStore) GetActivationTokenByToken(_ context.Context, token string) (account.ActivationToken, error) {
	tok, ok := m.tokens[token]
	if !ok {
		return account.ActivationToken{}, errors.New("not found")
	}
	return tok, nil
}

// mockSender records sent emails.
type mockSender struct {
	sent []emailAdapter.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	if m.err != nil {
		return emailAdapter.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return emailAdapter.SendResult{MessageID: fmt.Sprintf("msg-%d", len(m.sent))}, nil
}

func (m *mockSender) SendBatch(ctx context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	var results []emailAdapter.SendResult
	for _, req := range reqs {
		res, err := m.Send(ctx, req)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
