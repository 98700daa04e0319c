package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/logitrack/app/services"
	appctx "github.com/shashiranjanraj/logitrack/pkg/ctx"
)

type InventoryController struct {
	service *services.InventoryService
	urls    URLBuilder
}

func NewInventoryController(service *services.InventoryService, urls URLBuilder) *InventoryController {
	return &InventoryController{service: service, urls: urls}
}

type inventoryInput struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Quantity int    `json:"quantity"`
	Location string `json:"location" validate:"nullable,max=200"`
}

func (ic *InventoryController) Index(c *appctx.Context) {
	list, err := ic.service.ListAll(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	if !list.CacheHit {
		setQueryTime(c, list.QueryTime)
	}
	setCacheHit(c, list.CacheHit)
	c.JSON(http.StatusOK, list.Items)
}

func (ic *InventoryController) Store(c *appctx.Context) {
	var in inventoryInput
	if !c.BindJSON(&in) {
		return
	}
	item, err := ic.service.Create(c.Context(), services.NewItem{
		Name:     in.Name,
		Quantity: in.Quantity,
		Location: in.Location,
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(location(c, ic.urls, "inventory.index", nil), item)
}

func (ic *InventoryController) Destroy(c *appctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusNotFound, "Inventory item "+c.Param("id")+" not found")
		return
	}
	if err := ic.service.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}
