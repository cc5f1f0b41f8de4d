package controllers

import "github.com/honeyhomes/honey-homes-api/models"

// orderView adds the display label and badge color of the status.
type orderView struct {
	models.ServiceOrder
	StatusLabel string `json:"status_label"`
	StatusColor string `json:"status_color"`
}

func withStatusLabel(order models.ServiceOrder) orderView {
	return orderView{
		ServiceOrder: order,
		StatusLabel:  order.Status.Label(),
		StatusColor:  order.Status.BadgeColor(),
	}
}

func withStatusLabels(orders []models.ServiceOrder) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, withStatusLabel(o))
	}
	return views
}
