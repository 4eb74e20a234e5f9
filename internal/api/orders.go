package api

import (
	"net/http" // HTTP status codes

	"skate_marketplace/internal/dto"     // Request bodies
	"skate_marketplace/internal/service" // Order workflow

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListOrdersHandler returns a page of every order (admin)
func ListOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.PageQuery
		if !bindQuery(c, &q) {
			return
		}
		page, err := orders.ListAll(c.Request.Context(), q)
		reply(c, http.StatusOK, page, err)
	}
}

// MyOrdersHandler returns a page of the caller's orders
func MyOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		var q dto.PageQuery
		if !bindQuery(c, &q) {
			return
		}
		page, err := orders.ListMine(c.Request.Context(), p, q)
		reply(c, http.StatusOK, page, err)
	}
}

// GetOrderHandler returns one order visible to the caller
func GetOrderHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		order, err := orders.Get(c.Request.Context(), p, id)
		reply(c, http.StatusOK, order, err)
	}
}

// CreateOrderHandler places an order for the caller at current prices
func CreateOrderHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		var req dto.CreateOrderRequest
		if !bindJSON(c, &req) {
			return
		}
		order, err := orders.Create(c.Request.Context(), p, req)
		reply(c, http.StatusCreated, order, err)
	}
}

// UpdateOrderHandler replaces an order's items (owner or admin)
func UpdateOrderHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.UpdateOrderRequest
		if !bindJSON(c, &req) {
			return
		}
		order, err := orders.Update(c.Request.Context(), p, id, req)
		reply(c, http.StatusOK, order, err)
	}
}

// UpdateOrderStatusHandler moves an order through its lifecycle (admin)
func UpdateOrderStatusHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.UpdateStatusRequest
		if !bindJSON(c, &req) {
			return
		}
		order, err := orders.UpdateStatus(c.Request.Context(), id, req.Status)
		reply(c, http.StatusOK, order, err)
	}
}
