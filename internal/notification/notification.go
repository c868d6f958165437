package notification

import (
	"fmt"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/mailer"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
)

// SweepResult counts the products each alert kind was evaluated for.
type SweepResult struct {
	LowStock int `json:"low_stock"`
	Expiring int `json:"expiring"`
}

func (r SweepResult) Message() string {
	return fmt.Sprintf("Notifications sent: %d low stock, %d expiry alerts", r.LowStock, r.Expiring)
}

func lowStockMessage(p *product.Product, to string) mailer.Message {
	category := p.CategoryName
	if category == "" {
		category = "N/A"
	}
	return mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("Low Stock Alert: %s", p.Name),
		Body: fmt.Sprintf(`Low Stock Alert!

Product: %s
SKU: %s
Current Stock: %d
Minimum Stock Level: %d
Category: %s

Please restock this item soon.`, p.Name, p.SKU, p.CurrentStock, p.MinStockLevel, category),
	}
}

func expiryMessage(p *product.Product, to string, today time.Time) mailer.Message {
	return mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("Expiry Alert: %s", p.Name),
		Body: fmt.Sprintf(`Expiry Alert!

Product: %s
SKU: %s
Expiry Date: %s
Days Until Expiry: %d

This item is expiring soon. Please take action.`, p.Name, p.SKU, p.ExpiryString(), p.DaysUntilExpiry(today)),
	}
}
