package memstore

import (
	"context"
	"time"

	"anoa.com/fatetable/internal/entity"
	itemRepo "anoa.com/fatetable/internal/modules/item/repository"
	messageRepo "anoa.com/fatetable/internal/modules/message/repository"
	notifRepo "anoa.com/fatetable/internal/modules/notification/repository"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
)

type Notifications struct{ s *Store }

var _ notifRepo.NotificationRepository = Notifications{}

func (s *Store) Notifications() Notifications { return Notifications{s} }

func (r Notifications) CreateBatch(_ context.Context, rows []*entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("notifications.CreateBatch"); err != nil {
		return err
	}
	for _, n := range rows {
		r.s.stamp(&n.ID, &n.CreatedAt)
		r.s.d.notifications = append(r.s.d.notifications, *n)
	}
	return nil
}

func (r Notifications) FindByID(_ context.Context, id uuid.UUID) (*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.d.notifications {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, apperror.NotFound(apperror.ReasonNotificationNotFound, "notification not found")
}

func (r Notifications) GetByUserID(_ context.Context, userID uuid.UUID, campaignID *uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Notification
	for _, n := range r.s.d.notifications {
		if n.UserID == userID && (campaignID == nil || n.CampaignID == *campaignID) {
			out = append(out, n)
		}
	}
	sortNewest(out, func(n entity.Notification) (time.Time, uuid.UUID) { return n.CreatedAt, n.ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r Notifications) ListUnreadSince(_ context.Context, campaignID, userID uuid.UUID, since time.Time) ([]entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Notification
	for _, n := range r.s.d.notifications {
		if n.CampaignID == campaignID && n.UserID == userID && !n.IsRead && !n.CreatedAt.Before(since) {
			out = append(out, n)
		}
	}
	sortOldest(out, func(n entity.Notification) (time.Time, uuid.UUID) { return n.CreatedAt, n.ID })
	return out, nil
}

func (r Notifications) MarkAsRead(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.d.notifications {
		if r.s.d.notifications[i].ID == id {
			r.s.d.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r Notifications) MarkAllAsRead(_ context.Context, userID uuid.UUID, campaignID *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.d.notifications {
		if n.UserID == userID && (campaignID == nil || n.CampaignID == *campaignID) {
			r.s.d.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r Notifications) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, row := range r.s.d.notifications {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

// For returns every notification addressed to userID, oldest first.
func (r Notifications) For(userID uuid.UUID) []entity.Notification {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Notification
	for _, n := range r.s.d.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sortOldest(out, func(n entity.Notification) (time.Time, uuid.UUID) { return n.CreatedAt, n.ID })
	return out
}

// All returns every stored notification, oldest first.
func (r Notifications) All() []entity.Notification {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]entity.Notification(nil), r.s.d.notifications...)
	sortOldest(out, func(n entity.Notification) (time.Time, uuid.UUID) { return n.CreatedAt, n.ID })
	return out
}

type Items struct{ s *Store }

var _ itemRepo.ItemRepository = Items{}

func (s *Store) Items() Items { return Items{s} }

func (r Items) Create(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&it.ID, &it.CreatedAt)
	r.s.d.items[it.ID] = *it
	return nil
}

func (r Items) FindByID(_ context.Context, id uuid.UUID) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.d.items[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonItemNotFound, "item not found")
	}
	return &it, nil
}

func (r Items) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	return r.FindByID(ctx, id)
}

func (r Items) Save(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.items[it.ID] = *it
	return nil
}

func (r Items) ListByCharacter(_ context.Context, characterID uuid.UUID) ([]entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Item
	for _, it := range r.s.d.items {
		if it.OwnerCharacterID == characterID {
			out = append(out, it)
		}
	}
	sortNewest(out, func(i entity.Item) (time.Time, uuid.UUID) { return i.CreatedAt, i.ID })
	return out, nil
}

func (r Items) CreateTrade(_ context.Context, t *entity.ItemTrade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("items.CreateTrade"); err != nil {
		return err
	}
	r.s.stamp(&t.ID, &t.CreatedAt)
	r.s.d.trades = append(r.s.d.trades, *t)
	return nil
}

// Trades returns every recorded trade.
func (r Items) Trades() []entity.ItemTrade {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.ItemTrade(nil), r.s.d.trades...)
}

type Messages struct{ s *Store }

var _ messageRepo.MessageRepository = Messages{}

func (s *Store) Messages() Messages { return Messages{s} }

func (r Messages) Create(_ context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("messages.Create"); err != nil {
		return err
	}
	r.s.stamp(&m.ID, &m.CreatedAt)
	r.s.d.messages = append(r.s.d.messages, *m)
	return nil
}

func (r Messages) List(_ context.Context, filter messageRepo.ListFilter) ([]entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Message
	for _, m := range r.s.d.messages {
		if m.CampaignID != filter.CampaignID {
			continue
		}
		mine := m.SenderID == filter.UserID || m.RecipientID == filter.UserID
		if !mine {
			continue
		}
		if w := filter.WithUserID; w != nil {
			pair := (m.SenderID == filter.UserID && m.RecipientID == *w) ||
				(m.SenderID == *w && m.RecipientID == filter.UserID)
			if !pair {
				continue
			}
		}
		if filter.Since != nil && m.CreatedAt.Before(*filter.Since) {
			continue
		}
		if u, ok := r.s.d.users[m.SenderID]; ok {
			m.Sender = &u
		}
		if u, ok := r.s.d.users[m.RecipientID]; ok {
			m.Recipient = &u
		}
		out = append(out, m)
	}
	sortOldest(out, func(m entity.Message) (time.Time, uuid.UUID) { return m.CreatedAt, m.ID })
	return out, nil
}
