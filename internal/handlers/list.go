package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shoplist/internal/auth"
	"shoplist/internal/domain"
	"shoplist/internal/dto"
	"shoplist/internal/service"
)

// ListHandler serves the shopping list endpoints. All of them run
// behind auth.RequireToken.
type ListHandler struct {
	svc *service.ListService
}

// NewListHandler returns a new ListHandler.
func NewListHandler(svc *service.ListService) *ListHandler {
	return &ListHandler{svc: svc}
}

// List godoc
// @Summary      List own shopping lists
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        open  query     bool  false  "Filter by open state"
// @Success      200   {array}   dto.ListResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /lists/ [get]
func (h *ListHandler) List(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var open *bool
	if raw, ok := c.GetQuery("open"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "open must be a boolean"})
			return
		}
		open = &v
	}

	lists, err := h.svc.Lists(c.Request.Context(), user.ID, open)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listsToResponses(lists))
}

// Create godoc
// @Summary      Create a shopping list with its items
// @Tags         lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.SubmitList  true  "List submission"
// @Success      200   {object}  dto.ListResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /lists/ [post]
func (h *ListHandler) Create(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req dto.SubmitList
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]domain.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.Item{Name: it.Name, Open: it.Open}
	}

	list, err := h.svc.Create(c.Request.Context(), user.ID, items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOpenListExists):
			// Creation is disallowed in the current state, hence 403
			// rather than the 400 used at update.
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyList):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, listToResponse(list))
}

// Update godoc
// @Summary      Update a shopping list's open state
// @Tags         lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        list_id  path      string          true  "List ID"
// @Param        body     body      dto.UpdateList  true  "Partial update; null open means no change"
// @Success      200      {object}  dto.ListResponse
// @Success      204      {object}  dto.ListResponse
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /lists/{list_id}/ [put]
func (h *ListHandler) Update(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	listID, ok := parseUUID(c, "list_id", "List not found")
	if !ok {
		return
	}

	var req dto.UpdateList
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, mutated, err := h.svc.Update(c.Request.Context(), user.ID, listID, req.Open)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		case errors.Is(err, service.ErrOpenListExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	if !mutated {
		c.JSON(http.StatusNoContent, listToResponse(list))
		return
	}
	c.JSON(http.StatusOK, listToResponse(list))
}

// Items godoc
// @Summary      List items of a shopping list
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        list_id  path      string  true  "List ID"
// @Success      200      {array}   dto.ItemResponse
// @Failure      401      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /lists/{list_id}/items/ [get]
func (h *ListHandler) Items(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	listID, ok := parseUUID(c, "list_id", "List not found")
	if !ok {
		return
	}

	items, err := h.svc.Items(c.Request.Context(), user.ID, listID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, itemsToResponses(items))
}

// UpdateItem godoc
// @Summary      Update an item's open state
// @Description  Only the open flag is applied; the submitted name is ignored.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        list_id  path      string          true  "List ID"
// @Param        item_id  path      string          true  "Item ID"
// @Param        body     body      dto.SubmitItem  true  "Item update"
// @Success      200      {object}  dto.ItemResponse
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /lists/{list_id}/items/{item_id}/ [put]
func (h *ListHandler) UpdateItem(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	listID, ok := parseUUID(c, "list_id", "Item not found")
	if !ok {
		return
	}
	itemID, ok := parseUUID(c, "item_id", "Item not found")
	if !ok {
		return
	}

	var req dto.SubmitItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), user.ID, listID, itemID, req.Open)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, itemToResponse(item))
}

// parseUUID reads a path parameter as a uuid. Malformed identifiers
// get the same not-found answer as missing ones.
func parseUUID(c *gin.Context, name, notFoundMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return uuid.UUID{}, false
	}
	return id, true
}

func listToResponse(l domain.ShoppingList) dto.ListResponse {
	return dto.ListResponse{
		ID:      l.ID,
		UserID:  l.UserID,
		Open:    l.Open,
		Created: l.Created,
		Updated: l.Updated,
	}
}

func listsToResponses(lists []domain.ShoppingList) []dto.ListResponse {
	out := make([]dto.ListResponse, len(lists))
	for i := range lists {
		out[i] = listToResponse(lists[i])
	}
	return out
}

func itemToResponse(it domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:      it.ID,
		ListID:  it.ListID,
		Name:    it.Name,
		Open:    it.Open,
		Created: it.Created,
		Updated: it.Updated,
	}
}

func itemsToResponses(items []domain.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, len(items))
	for i := range items {
		out[i] = itemToResponse(items[i])
	}
	return out
}
