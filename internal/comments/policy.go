package comments

import "craftmotion/studio-api/models"

// Policy decides who may resolve or delete a comment. It is injected into
// the engine so the rules stay assignable rather than baked into the
// handlers.
type Policy struct {
	CanResolve func(actor Actor, comment models.TimelineComment) bool
	CanDelete  func(actor Actor, comment models.TimelineComment) bool
}

// DefaultPolicy encodes the studio's house rules: the side that didn't
// raise a piece of feedback closes it (team members may always resolve),
// authors may delete their own comments, and team members may delete any.
func DefaultPolicy() Policy {
	return Policy{
		CanResolve: func(actor Actor, comment models.TimelineComment) bool {
			if actor.Type == models.AuthorUser {
				return true
			}
			return actor.Type != comment.AuthorType
		},
		CanDelete: func(actor Actor, comment models.TimelineComment) bool {
			if actor.Type == models.AuthorUser {
				return true
			}
			return actor.ID == comment.AuthorID && actor.Type == comment.AuthorType
		},
	}
}
