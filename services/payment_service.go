package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"tableside/models"
)

// PaymentService reconciles gateway settlement webhooks. The endpoint is
// unauthenticated; the payload checksum is the sole authenticity guarantee,
// so verification fails closed and mutates nothing.
type PaymentService struct {
	DB             *gorm.DB
	checksumSecret string
}

func NewPaymentService(db *gorm.DB, checksumSecret string) *PaymentService {
	return &PaymentService{DB: db, checksumSecret: checksumSecret}
}

// Checksum computes the gateway digest: sort the top-level keys ascending,
// join as k=v pairs with &, append the secret directly and SHA-256 the
// result. The caller must have removed the checksum field already.
//
// Payloads must be decoded with json.Decoder.UseNumber so numeric values
// stringify exactly as sent; a float64 round-trip would mangle millisecond
// timestamps and break the digest.
func Checksum(payload map[string]interface{}, secret string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+stringifyChecksumValue(payload[k]))
	}

	sum := sha256.Sum256([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// stringifyChecksumValue renders a decoded JSON value the way the gateway
// does: strings verbatim, numbers as sent, lists comma-joined.
func stringifyChecksumValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, elem := range val {
			parts = append(parts, stringifyChecksumValue(elem))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// VerifyWebhook checks the supplied checksum against the one computed over
// every other top-level key. Verification is pure, so concurrent deliveries
// of the same payload are safe.
func (s *PaymentService) VerifyWebhook(payload map[string]interface{}) error {
	supplied, ok := payload["checksum"].(string)
	if !ok || supplied == "" {
		return ErrChecksumInvalid
	}

	fields := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if k == "checksum" {
			continue
		}
		fields[k] = v
	}

	expected := Checksum(fields, s.checksumSecret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) != 1 {
		return ErrChecksumInvalid
	}
	return nil
}

// ParseOrderIDs normalizes the webhook's dynamic orderIds field. The gateway
// sends either a comma-separated string ("3,5,9") or a list with mixed
// string/number elements; anything else is ErrMalformedPayload.
func ParseOrderIDs(v interface{}) ([]uint, error) {
	switch val := v.(type) {
	case string:
		parts := strings.Split(val, ",")
		ids := make([]uint, 0, len(parts))
		for _, p := range parts {
			id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
			if err != nil {
				return nil, ErrMalformedPayload
			}
			ids = append(ids, uint(id))
		}
		if len(ids) == 0 {
			return nil, ErrMalformedPayload
		}
		return ids, nil
	case []interface{}:
		if len(val) == 0 {
			return nil, ErrMalformedPayload
		}
		ids := make([]uint, 0, len(val))
		for _, elem := range val {
			switch e := elem.(type) {
			case string:
				id, err := strconv.ParseUint(strings.TrimSpace(e), 10, 64)
				if err != nil {
					return nil, ErrMalformedPayload
				}
				ids = append(ids, uint(id))
			case json.Number:
				id, err := strconv.ParseUint(e.String(), 10, 64)
				if err != nil {
					return nil, ErrMalformedPayload
				}
				ids = append(ids, uint(id))
			case float64:
				if e < 0 || e != float64(uint(e)) {
					return nil, ErrMalformedPayload
				}
				ids = append(ids, uint(e))
			default:
				return nil, ErrMalformedPayload
			}
		}
		return ids, nil
	default:
		return nil, ErrMalformedPayload
	}
}

// ApplyWebhook verifies and applies one settlement callback: checksum first,
// then orderIds normalization, then a single atomic batch setting every
// listed order to Paid. Replaying the identical webhook is a no-op beyond
// the batch write itself. Returns the listed orders for event emission.
func (s *PaymentService) ApplyWebhook(payload map[string]interface{}) ([]models.Order, error) {
	if err := s.VerifyWebhook(payload); err != nil {
		return nil, err
	}

	ids, err := ParseOrderIDs(payload["orderIds"])
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusPaid,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.Preload("DishSnapshot").Preload("Guest").
			Where("id IN ?", ids).Find(&orders).Error
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
