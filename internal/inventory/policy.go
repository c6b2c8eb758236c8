package inventory

import (
	"fmt"
	"strings"
)

// StockPolicy decides what happens when a sale would push stock below zero.
type StockPolicy int

const (
	// StockPolicyAllow decrements unconditionally; stock may go negative.
	StockPolicyAllow StockPolicy = iota
	// StockPolicyRejectBelowZero fails the decrement, aborting the order.
	StockPolicyRejectBelowZero
	// StockPolicyClampToZero decrements but never below zero.
	StockPolicyClampToZero
)

func (p StockPolicy) String() string {
	switch p {
	case StockPolicyRejectBelowZero:
		return "reject_below_zero"
	case StockPolicyClampToZero:
		return "clamp_to_zero"
	default:
		return "allow"
	}
}

func ParseStockPolicy(s string) (StockPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "allow":
		return StockPolicyAllow, nil
	case "reject_below_zero", "reject":
		return StockPolicyRejectBelowZero, nil
	case "clamp_to_zero", "clamp":
		return StockPolicyClampToZero, nil
	default:
		return StockPolicyAllow, fmt.Errorf("unknown stock policy %q", s)
	}
}
