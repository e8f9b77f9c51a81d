package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

// Store bundles one repository per collection.
type Store struct {
	Users    *UserRepository
	Clubs    *ClubRepository
	Posts    *PostRepository
	Comments *CommentRepository
}

func NewStore() *Store {
	return &Store{
		Users:    &UserRepository{col: newCollection(domain.ErrUserNotFound, "email")},
		Clubs:    &ClubRepository{col: newCollection(domain.ErrClubNotFound, "name", "slug")},
		Posts:    &PostRepository{col: newCollection(domain.ErrPostNotFound, "slug")},
		Comments: &CommentRepository{col: newCollection(domain.ErrCommentNotFound)},
	}
}

func assignID(id *primitive.ObjectID) primitive.ObjectID {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	return *id
}

// ----------------------------------------------------------------------------
// Users

type UserRepository struct {
	col *collection
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	return r.col.insert(assignID(&u.ID), u)
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	if err := r.col.get(id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.col.findOne("email", email, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	return list[domain.User](r.col, nil)
}

func (r *UserRepository) FindMany(_ context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	return list[domain.User](r.col, byIDs(ids))
}

func (r *UserRepository) Update(_ context.Context, id primitive.ObjectID, patch domain.UserPatch) (*domain.User, error) {
	return update(r.col, id, func(u *domain.User) {
		if patch.ProfilePic != nil {
			u.ProfilePic = *patch.ProfilePic
		}
		u.UpdatedAt = time.Now().UTC()
	})
}

func (r *UserRepository) Delete(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	if err := r.col.remove(id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) AddToSet(_ context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	return r.col.addToSet(id, u)
}

func (r *UserRepository) RemoveFromSet(_ context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	return r.col.removeFromSet(id, u)
}

// ----------------------------------------------------------------------------
// Clubs

type ClubRepository struct {
	col *collection
}

func (r *ClubRepository) Create(_ context.Context, c *domain.Club) error {
	return r.col.insert(assignID(&c.ID), c)
}

func (r *ClubRepository) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Club, error) {
	var c domain.Club
	if err := r.col.get(id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClubRepository) FindBySlug(_ context.Context, slug string) (*domain.Club, error) {
	var c domain.Club
	if err := r.col.findOne("slug", slug, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClubRepository) FindByName(_ context.Context, name string) (*domain.Club, error) {
	var c domain.Club
	if err := r.col.findOne("name", name, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClubRepository) List(_ context.Context) ([]*domain.Club, error) {
	return list[domain.Club](r.col, nil)
}

func (r *ClubRepository) FindMany(_ context.Context, ids []primitive.ObjectID) ([]*domain.Club, error) {
	return list[domain.Club](r.col, byIDs(ids))
}

func (r *ClubRepository) Update(_ context.Context, id primitive.ObjectID, patch domain.ClubPatch) (*domain.Club, error) {
	return update(r.col, id, func(c *domain.Club) {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Slug != nil {
			c.Slug = *patch.Slug
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Socials != nil {
			c.Socials = *patch.Socials
		}
		if patch.ClubfestLink != nil {
			c.ClubfestLink = *patch.ClubfestLink
		}
		c.UpdatedAt = time.Now().UTC()
	})
}

func (r *ClubRepository) Delete(_ context.Context, id primitive.ObjectID) (*domain.Club, error) {
	var c domain.Club
	if err := r.col.remove(id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClubRepository) AddToSet(_ context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	return r.col.addToSet(id, u)
}

func (r *ClubRepository) RemoveFromSet(_ context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	return r.col.removeFromSet(id, u)
}

// ----------------------------------------------------------------------------
// Posts

type PostRepository struct {
	col *collection
}

func (r *PostRepository) Create(_ context.Context, p *domain.Post) error {
	return r.col.insert(assignID(&p.ID), p)
}

func (r *PostRepository) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var p domain.Post
	if err := r.col.get(id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) FindBySlug(_ context.Context, slug string) (*domain.Post, error) {
	var p domain.Post
	if err := r.col.findOne("slug", slug, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) List(_ context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	return list[domain.Post](r.col, all(fieldEquals("club", filter.Club), fieldEquals("author", filter.Author)))
}

func (r *PostRepository) FindMany(_ context.Context, ids []primitive.ObjectID) ([]*domain.Post, error) {
	return list[domain.Post](r.col, byIDs(ids))
}

func (r *PostRepository) Update(_ context.Context, id primitive.ObjectID, patch domain.PostPatch) (*domain.Post, error) {
	return update(r.col, id, func(p *domain.Post) {
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Slug != nil {
			p.Slug = *patch.Slug
		}
		if patch.Body != nil {
			p.Body = *patch.Body
		}
		if patch.Flairs != nil {
			p.Flairs = *patch.Flairs
		}
		if patch.Attachment != nil {
			p.Attachment = patch.Attachment
		}
		p.UpdatedAt = time.Now().UTC()
	})
}

func (r *PostRepository) Delete(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var p domain.Post
	if err := r.col.remove(id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) AddToSet(_ context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	return r.col.addToSet(id, u)
}

func (r *PostRepository) RemoveFromSet(_ context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	return r.col.removeFromSet(id, u)
}

// ----------------------------------------------------------------------------
// Comments

type CommentRepository struct {
	col *collection
}

func (r *CommentRepository) Create(_ context.Context, c *domain.Comment) error {
	return r.col.insert(assignID(&c.ID), c)
}

func (r *CommentRepository) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var c domain.Comment
	if err := r.col.get(id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) List(_ context.Context, filter domain.CommentFilter) ([]*domain.Comment, error) {
	return list[domain.Comment](r.col, all(fieldEquals("post", filter.Post), fieldEquals("author", filter.Author)))
}

func (r *CommentRepository) FindMany(_ context.Context, ids []primitive.ObjectID) ([]*domain.Comment, error) {
	return list[domain.Comment](r.col, byIDs(ids))
}

func (r *CommentRepository) Update(_ context.Context, id primitive.ObjectID, patch domain.CommentPatch) (*domain.Comment, error) {
	return update(r.col, id, func(c *domain.Comment) {
		if patch.Body != nil {
			c.Body = *patch.Body
		}
		if patch.Deleted != nil {
			c.Deleted = *patch.Deleted
		}
		if patch.OriginalBody != nil {
			c.OriginalBody = *patch.OriginalBody
		}
		c.UpdatedAt = time.Now().UTC()
	})
}

func (r *CommentRepository) AddToSet(_ context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	return r.col.addToSet(id, u)
}

func (r *CommentRepository) RemoveFromSet(_ context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	return r.col.removeFromSet(id, u)
}

var (
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.ClubRepository    = (*ClubRepository)(nil)
	_ ports.PostRepository    = (*PostRepository)(nil)
	_ ports.CommentRepository = (*CommentRepository)(nil)
)
