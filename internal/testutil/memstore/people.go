package memstore

import (
	"context"
	"sort"
	"time"

	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	userRepo "anoa.com/fatetable/internal/modules/user/repository"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Users struct{ s *Store }

var _ userRepo.UserRepository = Users{}

func (s *Store) Users() Users { return Users{s} }

func (r Users) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&u.ID, &u.CreatedAt)
	if u.Profile != nil {
		u.Profile.UserID = u.ID
	}
	r.s.d.users[u.ID] = cloneUser(u)
	return nil
}

func cloneUser(u *entity.User) entity.User {
	out := *u
	if u.Profile != nil {
		p := *u.Profile
		out.Profile = &p
	}
	return out
}

func (r Users) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonUserNotFound, "user not found")
	}
	out := cloneUser(&u)
	return &out, nil
}

func (r Users) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.d.users {
		if u.Username == username {
			out := cloneUser(&u)
			return &out, nil
		}
	}
	return nil, apperror.NotFound(apperror.ReasonUserNotFound, "user not found")
}

func (r Users) Taken(_ context.Context, username, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.d.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r Users) List(_ context.Context) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.User, 0, len(r.s.d.users))
	for _, u := range r.s.d.users {
		out = append(out, cloneUser(&u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type Campaigns struct{ s *Store }

var _ campaignRepo.CampaignRepository = Campaigns{}

func (s *Store) Campaigns() Campaigns { return Campaigns{s} }

func (r Campaigns) Create(_ context.Context, c *entity.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&c.ID, &c.CreatedAt)
	r.s.d.campaigns[c.ID] = *c
	return nil
}

func (r Campaigns) FindByID(_ context.Context, id uuid.UUID) (*entity.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.campaigns[id]
	if !ok {
		return nil, apperror.NotFound(apperror.ReasonCampaignNotFound, "campaign not found")
	}
	return &c, nil
}

func (r Campaigns) ListForUser(_ context.Context, userID uuid.UUID) ([]entity.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	joined := map[uuid.UUID]bool{}
	for _, ch := range r.s.d.characters {
		if ch.OwnerID == userID {
			joined[ch.CampaignID] = true
		}
	}
	var out []entity.Campaign
	for _, c := range r.s.d.campaigns {
		if c.OwnerID == userID || joined[c.ID] {
			out = append(out, c)
		}
	}
	sortNewest(out, func(c entity.Campaign) (time.Time, uuid.UUID) { return c.CreatedAt, c.ID })
	return out, nil
}

func (r Campaigns) ListAll(_ context.Context) ([]entity.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Campaign, 0, len(r.s.d.campaigns))
	for _, c := range r.s.d.campaigns {
		out = append(out, c)
	}
	sortNewest(out, func(c entity.Campaign) (time.Time, uuid.UUID) { return c.CreatedAt, c.ID })
	return out, nil
}

func (r Campaigns) UpdateMap(_ context.Context, id uuid.UUID, data datatypes.JSON, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.campaigns[id]
	if !ok {
		return apperror.NotFound(apperror.ReasonCampaignNotFound, "campaign not found")
	}
	c.MapData = append(datatypes.JSON(nil), data...)
	c.MapUpdatedAt = &at
	r.s.d.campaigns[id] = c
	return nil
}

func (r Campaigns) IsBanned(_ context.Context, campaignID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.d.bans {
		if b.CampaignID == campaignID && b.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r Campaigns) CreateBan(_ context.Context, ban *entity.CampaignBan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.d.bans {
		if b.CampaignID == ban.CampaignID && b.UserID == ban.UserID {
			return nil
		}
	}
	r.s.stamp(&ban.ID, &ban.CreatedAt)
	r.s.d.bans = append(r.s.d.bans, *ban)
	return nil
}

func (r Campaigns) ParticipantIDs(_ context.Context, campaignID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	banned := map[uuid.UUID]bool{}
	for _, b := range r.s.d.bans {
		if b.CampaignID == campaignID {
			banned[b.UserID] = true
		}
	}
	var ids []uuid.UUID
	for _, ch := range r.s.d.characters {
		if ch.CampaignID == campaignID && !ch.IsNPC && !banned[ch.OwnerID] && !containsID(ids, ch.OwnerID) {
			ids = append(ids, ch.OwnerID)
		}
	}
	return ids, nil
}
