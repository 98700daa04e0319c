package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shashiranjanraj/logitrack/app/services"
	"github.com/shashiranjanraj/logitrack/pkg/apperr"
	appctx "github.com/shashiranjanraj/logitrack/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
	urls    URLBuilder
}

func NewOrderController(service *services.OrderService, urls URLBuilder) *OrderController {
	return &OrderController{service: service, urls: urls}
}

type orderInput struct {
	CustomerName string           `json:"customerName" validate:"required,max=200"`
	DatePlaced   *time.Time       `json:"datePlaced"`
	Items        []orderItemInput `json:"items"        validate:"dive"`
}

type orderItemInput struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Quantity int    `json:"quantity"`
	Location string `json:"location" validate:"nullable,max=200"`
}

func (oc *OrderController) Index(c *appctx.Context) {
	list, err := oc.service.ListAll(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	setQueryTime(c, list.QueryTime)
	c.JSON(http.StatusOK, list.Orders)
}

func (oc *OrderController) Show(c *appctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusNotFound, "Order "+c.Param("id")+" not found")
		return
	}

	lookup, err := oc.service.GetByID(c.Context(), id)
	if !lookup.CacheHit && (err == nil || apperr.KindOf(err) == apperr.KindNotFound) {
		setQueryTime(c, lookup.QueryTime)
	}
	if err != nil {
		c.Fail(err)
		return
	}
	setCacheHit(c, lookup.CacheHit)
	c.JSON(http.StatusOK, lookup.Order)
}

func (oc *OrderController) Store(c *appctx.Context) {
	var in orderInput
	if !c.BindJSON(&in) {
		return
	}

	items := make([]services.NewItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, services.NewItem{Name: it.Name, Quantity: it.Quantity, Location: it.Location})
	}

	order, err := oc.service.Create(c.Context(), services.NewOrder{
		CustomerName: in.CustomerName,
		DatePlaced:   in.DatePlaced,
		Items:        items,
	})
	if err != nil {
		c.Fail(err)
		return
	}

	loc := location(c, oc.urls, "orders.show", map[string]string{"id": strconv.FormatUint(uint64(order.OrderID), 10)})
	c.Created(loc, order)
}

func (oc *OrderController) Destroy(c *appctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.Error(http.StatusNotFound, "Order "+c.Param("id")+" not found")
		return
	}
	if err := oc.service.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}
