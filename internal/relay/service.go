package relay

import (
	"context"
	"fmt"
	"strings"
)

// Request payloads mirror the wire contract; field names are fixed.

type WelcomeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type OrderDetails struct {
	OrderID     string `json:"orderId"`
	TotalAmount string `json:"totalAmount"`
	ItemsCount  int    `json:"itemsCount"`
}

type OrderRequest struct {
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	OrderDetails OrderDetails `json:"orderDetails"`
}

type DeliveredRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	OrderID string `json:"orderId"`
}

type BackInStockRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	ProductName string `json:"productName"`
	ProductURL  string `json:"productUrl"`
}

type LoginAlertRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Time  string `json:"time"`
}

// Service renders and sends the five transactional emails.
type Service interface {
	SendWelcome(ctx context.Context, req WelcomeRequest) error
	SendOrder(ctx context.Context, req OrderRequest) error
	SendDelivered(ctx context.Context, req DeliveredRequest) error
	SendBackInStock(ctx context.Context, req BackInStockRequest) error
	SendLoginAlert(ctx context.Context, req LoginAlertRequest) error
}

type service struct {
	sender     Sender
	couponCode string
}

// NewService builds the relay service on top of the provided sender.
func NewService(sender Sender, couponCode string) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender required")
	}
	if couponCode == "" {
		couponCode = "VENDIXO10"
	}
	return &service{sender: sender, couponCode: couponCode}, nil
}

func (s *service) SendWelcome(ctx context.Context, req WelcomeRequest) error {
	if err := requireEmail(req.Email); err != nil {
		return err
	}
	html, err := render(welcomeTmpl, struct {
		Name       string
		CouponCode string
	}{Name: req.Name, CouponCode: s.couponCode})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, Message{
		FromName: "Vendixo",
		To:       req.Email,
		Subject:  fmt.Sprintf("Welcome to Vendixo, %s!", req.Name),
		HTML:     html,
	})
}

func (s *service) SendOrder(ctx context.Context, req OrderRequest) error {
	if err := requireEmail(req.Email); err != nil {
		return err
	}
	html, err := render(orderTmpl, struct {
		Name        string
		OrderID     string
		TotalAmount string
		ItemsCount  int
	}{
		Name:        req.Name,
		OrderID:     req.OrderDetails.OrderID,
		TotalAmount: req.OrderDetails.TotalAmount,
		ItemsCount:  req.OrderDetails.ItemsCount,
	})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, Message{
		FromName: "Vendixo Support",
		To:       req.Email,
		Subject:  fmt.Sprintf("Order Confirmed, %s! (#%s)", req.Name, strings.ToUpper(req.OrderDetails.OrderID)),
		HTML:     html,
	})
}

func (s *service) SendDelivered(ctx context.Context, req DeliveredRequest) error {
	if err := requireEmail(req.Email); err != nil {
		return err
	}
	html, err := render(deliveredTmpl, struct {
		Name    string
		OrderID string
	}{Name: req.Name, OrderID: req.OrderID})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, Message{
		FromName: "Vendixo Updates",
		To:       req.Email,
		Subject:  fmt.Sprintf("Delivered! Enjoy your new gear, %s", req.Name),
		HTML:     html,
	})
}

func (s *service) SendBackInStock(ctx context.Context, req BackInStockRequest) error {
	if err := requireEmail(req.Email); err != nil {
		return err
	}
	html, err := render(backInStockTmpl, struct {
		Name        string
		ProductName string
		ProductURL  string
	}{Name: req.Name, ProductName: req.ProductName, ProductURL: req.ProductURL})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, Message{
		FromName: "Vendixo Alerts",
		To:       req.Email,
		Subject:  fmt.Sprintf("Quick! %s is back in stock, %s!", req.ProductName, req.Name),
		HTML:     html,
	})
}

func (s *service) SendLoginAlert(ctx context.Context, req LoginAlertRequest) error {
	if err := requireEmail(req.Email); err != nil {
		return err
	}
	html, err := render(loginAlertTmpl, struct {
		Name string
		Time string
	}{Name: req.Name, Time: req.Time})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, Message{
		FromName: "Vendixo Security",
		To:       req.Email,
		Subject:  fmt.Sprintf("Security Alert: New Login for %s", req.Name),
		HTML:     html,
	})
}

func requireEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email required")
	}
	return nil
}
