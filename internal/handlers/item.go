package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crucial707/todoism/internal/i18n"
	"github.com/crucial707/todoism/internal/metrics"
	"github.com/crucial707/todoism/internal/models"
	"github.com/crucial707/todoism/internal/repo"
	"github.com/crucial707/todoism/internal/respond"
)

// ItemHandler serves the signed-in user's items. Every repository call is
// scoped to that user, so another user's item id answers 404.
type ItemHandler struct {
	Items   *repo.ItemRepo
	PerPage int
}

// ItemPage is one page of a filtered item list.
type ItemPage struct {
	Items       []models.Item     `json:"items"`
	Filter      models.ItemFilter `json:"filter"`
	Page        int               `json:"page"`
	PerPage     int               `json:"per_page"`
	Total       int               `json:"total"`
	ActiveItems int               `json:"active_items"`
}

// HasNext reports whether a later page has items.
func (p ItemPage) HasNext() bool {
	if p.PerPage < 1 || p.Total < 1 {
		return false
	}
	// Page*PerPage < Total, without the multiplication.
	return p.Page <= (p.Total-1)/p.PerPage
}

// pageOffset returns the row offset of page. ok is false when the offset
// does not fit in an int; such a page is past any real end.
func pageOffset(page, perPage int) (offset int, ok bool) {
	if perPage < 1 || page-1 > (math.MaxInt-1)/perPage {
		return 0, false
	}
	return (page - 1) * perPage, true
}

type itemMessage struct {
	Message string      `json:"message"`
	Item    models.Item `json:"item"`
}

// ==========================
// List
// ==========================

// LoadPage returns page (1-based) of the user's items matching f. A page past
// the end has no items.
func (h *ItemHandler) LoadPage(ctx context.Context, userID int, f models.ItemFilter, page int) (ItemPage, error) {
	if page < 1 {
		page = 1
	}
	out := ItemPage{Filter: f, Page: page, PerPage: h.PerPage, Items: []models.Item{}}

	if offset, ok := pageOffset(page, h.PerPage); ok {
		items, err := h.Items.List(ctx, userID, f, h.PerPage, offset)
		if err != nil {
			return ItemPage{}, fmt.Errorf("list items: %w", err)
		}
		out.Items = items
	}

	var err error
	if out.Total, err = h.Items.Count(ctx, userID, f); err != nil {
		return ItemPage{}, fmt.Errorf("count items: %w", err)
	}
	if f == models.FilterActive {
		out.ActiveItems = out.Total
	} else if out.ActiveItems, err = h.Items.Count(ctx, userID, models.FilterActive); err != nil {
		return ItemPage{}, fmt.Errorf("count active items: %w", err)
	}
	return out, nil
}

// List answers ?filter=all|active|done&page=N.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := models.ParseItemFilter(r.URL.Query().Get("filter"))
	if !ok {
		respond.ValidationError(w, r, map[string]string{"filter": "must be one of all, active, done"})
		return
	}
	h.list(w, r, f)
}

// ListFiltered serves a fixed filter, for the /active and /completed API routes.
func (h *ItemHandler) ListFiltered(f models.ItemFilter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.list(w, r, f)
	}
}

func (h *ItemHandler) list(w http.ResponseWriter, r *http.Request, f models.ItemFilter) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	page, err := h.LoadPage(r.Context(), user.ID, f, pageParam(r))
	if err != nil {
		respond.Internal(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

// ==========================
// Create
// ==========================

type createItemInput struct {
	Body string `json:"body" validate:"required,max=500"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in createItemInput
	if err := decode(r, &in, func(v url.Values) { in.Body = v.Get("body") }); err != nil {
		badRequest(w, r, "Bad request")
		return
	}
	in.Body = cleanText(in.Body)
	if err := validate.Struct(in); err != nil {
		respond.ValidationError(w, r, validationFields(err))
		return
	}

	item, err := h.Items.Create(r.Context(), user.ID, in.Body)
	if err != nil {
		respond.Internal(w, r, fmt.Errorf("create item: %w", err))
		return
	}
	metrics.IncItemsCreated()

	h.done(w, r, http.StatusCreated, itemMessage{Message: i18n.T(r.Context(), "Item created."), Item: item})
}

// ==========================
// Get / Update
// ==========================

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.target(w, r)
	if !ok {
		return
	}
	item, err := h.Items.Get(r.Context(), user.ID, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

type updateItemInput struct {
	Body *string `json:"body" validate:"omitnil,required,max=500"`
	Done *bool   `json:"done"`
}

// Update changes the body and/or done flag. Omitted fields keep their value;
// concurrent updates are last-write-wins.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var in updateItemInput
	err := decode(r, &in, func(v url.Values) {
		if v.Has("body") {
			body := v.Get("body")
			in.Body = &body
		}
		if v.Has("done") {
			done, _ := strconv.ParseBool(v.Get("done"))
			done = done || v.Get("done") == "on"
			in.Done = &done
		}
	})
	if err != nil {
		badRequest(w, r, "Bad request")
		return
	}
	if in.Body != nil {
		body := cleanText(*in.Body)
		in.Body = &body
	}
	if err := validate.Struct(in); err != nil {
		respond.ValidationError(w, r, validationFields(err))
		return
	}

	item, err := h.Items.Get(r.Context(), user.ID, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if in.Body != nil {
		item.Body = *in.Body
	}
	if in.Done != nil {
		item.Done = *in.Done
	}

	item, err = h.Items.Update(r.Context(), user.ID, id, item.Body, item.Done)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, itemMessage{Message: i18n.T(r.Context(), "Item updated."), Item: item})
}

// ==========================
// Toggle / Delete / Clear
// ==========================

func (h *ItemHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.target(w, r)
	if !ok {
		return
	}
	item, err := h.Items.Toggle(r.Context(), user.ID, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, itemMessage{Message: i18n.T(r.Context(), "Item toggled."), Item: item})
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.Items.Delete(r.Context(), user.ID, id); err != nil {
		fail(w, r, err)
		return
	}
	h.done(w, r, http.StatusOK, respond.Message{Message: i18n.T(r.Context(), "Item deleted.")})
}

// Clear deletes the user's completed items.
func (h *ItemHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	n, err := h.Items.DeleteDone(r.Context(), user.ID)
	if err != nil {
		respond.Internal(w, r, fmt.Errorf("clear items: %w", err))
		return
	}
	h.done(w, r, http.StatusOK, struct {
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}{i18n.T(r.Context(), "Completed items cleared."), n})
}

// target resolves the current user and the {id} parameter. A malformed id
// cannot name an item, so it is a 404 like any other missing item.
func (h *ItemHandler) target(w http.ResponseWriter, r *http.Request) (*models.User, int, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, 0, false
	}
	id, ok := parseID(r)
	if !ok {
		fail(w, r, repo.ErrNotFound)
		return nil, 0, false
	}
	return user, id, true
}

// done answers a successful mutation: JSON for scripts and API clients, a
// redirect back to the app page for plain form posts.
func (h *ItemHandler) done(w http.ResponseWriter, r *http.Request, status int, v any) {
	if browserForm(r) {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}
	respond.JSON(w, status, v)
}
