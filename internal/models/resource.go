package models

import "strings"

// ItemType classifies a tool/consumable line.
type ItemType string

const (
	ItemTool       ItemType = "TOOL"
	ItemHandTool   ItemType = "HAND_TOOL"
	ItemSparePart  ItemType = "SPARE_PART"
	ItemConsumable ItemType = "CONSUMABLE"
	ItemMaterial   ItemType = "MATERIAL"
	ItemUnknown    ItemType = "UNKNOWN"
)

// NormalizeItemType resolves the upstream item-type field, which arrives either
// as a bare string or as an object with a nested "name" field, to the flat enum.
// Unknown shapes and values resolve to ItemUnknown rather than propagating.
func NormalizeItemType(raw interface{}) ItemType {
	var name string
	switch v := raw.(type) {
	case string:
		name = v
	case ItemType:
		name = string(v)
	case map[string]interface{}:
		if n, ok := v["name"].(string); ok {
			name = n
		}
	}
	switch ItemType(strings.ToUpper(strings.TrimSpace(name))) {
	case ItemTool:
		return ItemTool
	case ItemHandTool:
		return ItemHandTool
	case ItemSparePart:
		return ItemSparePart
	case ItemConsumable:
		return ItemConsumable
	case ItemMaterial:
		return ItemMaterial
	default:
		return ItemUnknown
	}
}

// IsConsumable reports whether the item follows quantity-return semantics.
// Everything else (TOOL, HAND_TOOL, UNKNOWN) is treated as a tool and exposes
// a returned-damaged flag instead. This partition drives the UI grouping and
// must not change.
func (t ItemType) IsConsumable() bool {
	switch t {
	case ItemSparePart, ItemConsumable, ItemMaterial:
		return true
	default:
		return false
	}
}

// ReservationStatus is the upstream status of a tool reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationPicked    ReservationStatus = "PICKED"
	ReservationReturned  ReservationStatus = "RETURNED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation is one reserved tool/consumable line reported by the
// reservation collaborator.
type Reservation struct {
	ID       string            `json:"id" bson:"_id,omitempty"`
	ToolID   string            `json:"tool_id" bson:"tool_id"`
	ToolName string            `json:"tool_name" bson:"tool_name"`
	ItemType ItemType          `json:"item_type" bson:"item_type"`
	Unit     string            `json:"unit" bson:"unit"`
	Quantity float64           `json:"quantity" bson:"quantity"`
	Status   ReservationStatus `json:"status" bson:"status"`
}

// ResourceConfirmation is a single tool/consumable line attached to an
// execution attempt. It lives only for the duration of the execution form;
// once submitted it is flattened into a ResourceSnapshot inside the record.
type ResourceConfirmation struct {
	ReservationID   string   `json:"reservation_id,omitempty"` // empty for checklist and ad-hoc lines
	ToolID          string   `json:"tool_id,omitempty"`        // empty for pure checklist lines
	ToolName        string   `json:"tool_name"`
	ItemType        ItemType `json:"item_type"`
	Unit            string   `json:"unit,omitempty"`
	PickedQuantity  float64  `json:"picked_quantity"`
	UsedQuantity    float64  `json:"used_quantity"`
	ReturnedDamaged bool     `json:"returned_damaged"`
	IsAdHoc         bool     `json:"is_ad_hoc"`
}

// ResourceSnapshot is the audit form of a confirmation persisted inside an
// execution record. The picked quantity is intentionally dropped; it is
// derivable from the reservation.
type ResourceSnapshot struct {
	ReservationID   string   `json:"reservation_id,omitempty" bson:"reservation_id,omitempty"`
	ToolID          string   `json:"tool_id,omitempty" bson:"tool_id,omitempty"`
	ToolName        string   `json:"tool_name" bson:"tool_name"`
	ItemType        ItemType `json:"item_type" bson:"item_type"`
	UsedQuantity    float64  `json:"used_quantity" bson:"used_quantity"`
	ReturnedDamaged bool     `json:"returned_damaged" bson:"returned_damaged"`
	IsAdHoc         bool     `json:"is_ad_hoc" bson:"is_ad_hoc"`
}

// Tool is a stock item that can be attached to an execution ad hoc.
type Tool struct {
	ID            string   `json:"id" bson:"_id,omitempty"`
	CompanyID     string   `json:"company_id" bson:"company_id"`
	Name          string   `json:"name" bson:"name"`
	ItemType      ItemType `json:"item_type" bson:"item_type"`
	Unit          string   `json:"unit" bson:"unit"`
	StockQuantity float64  `json:"stock_quantity" bson:"stock_quantity"`
}
