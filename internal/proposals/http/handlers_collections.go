package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/store"
)

type collectionRoutes struct {
	path   string
	add    gin.HandlerFunc
	update gin.HandlerFunc
	remove gin.HandlerFunc
}

// textPatch updates collections whose entries carry a single text field.
type textPatch struct {
	Text *string `json:"text"`
}

func (h *Handler) collections() []collectionRoutes {
	return []collectionRoutes{
		collection(h, "items",
			(*store.Store).AddItem, (*store.Store).UpdateItem, (*store.Store).RemoveItem),
		collection(h, "phases",
			(*store.Store).AddPhase, (*store.Store).UpdatePhase, (*store.Store).RemovePhase),
		collection(h, "exclusions",
			(*store.Store).AddExclusion,
			func(s *store.Store, id string, p textPatch) {
				if p.Text != nil {
					s.UpdateExclusion(id, *p.Text)
				}
			},
			(*store.Store).RemoveExclusion),
		collection(h, "milestones",
			(*store.Store).AddMilestone, (*store.Store).UpdateMilestone, (*store.Store).RemoveMilestone),
		collection(h, "terms",
			(*store.Store).AddTerm, (*store.Store).UpdateTerm, (*store.Store).RemoveTerm),
		collection(h, "notes",
			(*store.Store).AddNote,
			func(s *store.Store, id string, p textPatch) {
				if p.Text != nil {
					s.UpdateNote(id, *p.Text)
				}
			},
			(*store.Store).RemoveNote),
	}
}

// collection builds the add/update/remove handlers of one keyed collection.
// Update and remove with an unknown id succeed without changing anything.
func collection[E domain.Entry, P any](
	h *Handler,
	path string,
	add func(*store.Store) E,
	update func(*store.Store, string, P),
	remove func(*store.Store, string),
) collectionRoutes {
	return collectionRoutes{
		path: path,

		// add appends an entry with default content. A body, if present, is
		// applied to the new entry in the same mutation.
		add: func(c *gin.Context) {
			sess, ok := h.session(c)
			if !ok {
				return
			}
			var p P
			hasBody := c.Request.ContentLength > 0
			if hasBody {
				if err := c.ShouldBindJSON(&p); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
					return
				}
			}
			var entry E
			ok = h.transact(c, sess, func(tx *store.Store) {
				entry = add(tx)
				if hasBody {
					update(tx, entry.EntryID(), p)
				}
			})
			if !ok {
				return
			}
			c.JSON(http.StatusCreated, gin.H{"id": entry.EntryID(), "session": viewOf(sess)})
		},

		update: func(c *gin.Context) {
			sess, ok := h.session(c)
			if !ok {
				return
			}
			var p P
			if err := c.ShouldBindJSON(&p); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
			if !h.transact(c, sess, func(tx *store.Store) { update(tx, c.Param("id"), p) }) {
				return
			}
			h.respondSession(c, sess)
		},

		remove: func(c *gin.Context) {
			sess, ok := h.session(c)
			if !ok {
				return
			}
			remove(sess.Store, c.Param("id"))
			h.respondSession(c, sess)
		},
	}
}
