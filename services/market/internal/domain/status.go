package domain

import (
	"fmt"
	"strings"
)

type DeliveryStatus string

const (
	StatusProcessing DeliveryStatus = "processing"
	StatusInTransit  DeliveryStatus = "in_transit"
	StatusDelivered  DeliveryStatus = "delivered"
)

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch st := DeliveryStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusProcessing, StatusInTransit, StatusDelivered:
		return st, nil
	}
	return "", fmt.Errorf("unknown delivery status %q", s)
}

func (s DeliveryStatus) Valid() bool {
	_, err := ParseDeliveryStatus(string(s))
	return err == nil
}
