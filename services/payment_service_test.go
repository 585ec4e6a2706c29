package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/models"
)

const testChecksumSecret = "webhook-test-secret"

// decodePayload round-trips a payload through JSON the way the webhook
// handler does, keeping numerics as json.Number.
func decodePayload(t *testing.T, payload map[string]interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded map[string]interface{}
	require.NoError(t, dec.Decode(&decoded))
	return decoded
}

func signedPayload(t *testing.T, fields map[string]interface{}) map[string]interface{} {
	t.Helper()
	decoded := decodePayload(t, fields)
	decoded["checksum"] = Checksum(decoded, testChecksumSecret)
	return decoded
}

func TestChecksumIsKeyOrderIndependent(t *testing.T) {
	a := decodePayload(t, map[string]interface{}{
		"amount":    150000,
		"orderIds":  "3,5,9",
		"timestamp": 1716986400123,
		"reference": "TX-001",
	})
	b := decodePayload(t, map[string]interface{}{
		"reference": "TX-001",
		"timestamp": 1716986400123,
		"orderIds":  "3,5,9",
		"amount":    150000,
	})

	assert.Equal(t, Checksum(a, testChecksumSecret), Checksum(b, testChecksumSecret))
	assert.NotEqual(t, Checksum(a, testChecksumSecret), Checksum(a, "other-secret"))

	// Large millisecond timestamps must stringify as sent, not in
	// scientific notation.
	c := decodePayload(t, map[string]interface{}{"timestamp": 1716986400123})
	d := decodePayload(t, map[string]interface{}{"timestamp": "1716986400123"})
	assert.Equal(t, Checksum(c, testChecksumSecret), Checksum(d, testChecksumSecret))
}

func TestChecksumListValues(t *testing.T) {
	list := decodePayload(t, map[string]interface{}{"orderIds": []interface{}{3, 5, 9}})
	flat := decodePayload(t, map[string]interface{}{"orderIds": "3,5,9"})
	assert.Equal(t, Checksum(list, testChecksumSecret), Checksum(flat, testChecksumSecret))
}

func TestVerifyWebhook(t *testing.T) {
	svc := NewPaymentService(nil, testChecksumSecret)

	payload := signedPayload(t, map[string]interface{}{
		"orderIds": "3,5",
		"amount":   100000,
	})
	assert.NoError(t, svc.VerifyWebhook(payload))

	tampered := signedPayload(t, map[string]interface{}{
		"orderIds": "3,5",
		"amount":   100000,
	})
	tampered["amount"] = json.Number("999999")
	assert.ErrorIs(t, svc.VerifyWebhook(tampered), ErrChecksumInvalid)

	missing := decodePayload(t, map[string]interface{}{"orderIds": "3,5"})
	assert.ErrorIs(t, svc.VerifyWebhook(missing), ErrChecksumInvalid)

	wrongType := decodePayload(t, map[string]interface{}{"orderIds": "3,5"})
	wrongType["checksum"] = json.Number("123")
	assert.ErrorIs(t, svc.VerifyWebhook(wrongType), ErrChecksumInvalid)
}

func TestParseOrderIDs(t *testing.T) {
	ids, err := ParseOrderIDs("3,5,9")
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 5, 9}, ids)

	ids, err = ParseOrderIDs(" 3 , 5 ")
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 5}, ids)

	ids, err = ParseOrderIDs([]interface{}{json.Number("3"), "5", float64(9)})
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 5, 9}, ids)

	for _, bad := range []interface{}{
		"",
		"3,x",
		"-1",
		[]interface{}{},
		[]interface{}{true},
		[]interface{}{float64(3.5)},
		json.Number("3"),
		nil,
	} {
		_, err := ParseOrderIDs(bad)
		assert.ErrorIsf(t, err, ErrMalformedPayload, "input %#v", bad)
	}
}

func TestApplyWebhookSettlesListedOrders(t *testing.T) {
	db := setupTestDB(t)
	orderSvc := NewOrderService(db)
	svc := NewPaymentService(db, testChecksumSecret)

	guest := seedGuest(t, db, 4)
	dish := seedDish(t, db, "Pho", 50000)
	orders, err := orderSvc.CreateOrders(guest.ID, []OrderItemInput{
		{DishID: dish.ID, Quantity: 1},
		{DishID: dish.ID, Quantity: 2},
	})
	require.NoError(t, err)

	payload := signedPayload(t, map[string]interface{}{
		"orderIds": []interface{}{orders[0].ID, orders[1].ID},
		"amount":   150000,
		"status":   "PAID",
	})

	settled, err := svc.ApplyWebhook(payload)
	require.NoError(t, err)
	require.Len(t, settled, 2)
	for _, o := range settled {
		assert.Equal(t, models.OrderStatusPaid, o.Status)
	}

	// Replaying the identical webhook converges on the same state.
	settled, err = svc.ApplyWebhook(payload)
	require.NoError(t, err)
	require.Len(t, settled, 2)
	for _, o := range settled {
		assert.Equal(t, models.OrderStatusPaid, o.Status)
	}
}

func TestApplyWebhookRejectsTamperedPayload(t *testing.T) {
	db := setupTestDB(t)
	orderSvc := NewOrderService(db)
	svc := NewPaymentService(db, testChecksumSecret)

	guest := seedGuest(t, db, 4)
	dish := seedDish(t, db, "Pho", 50000)
	orders, err := orderSvc.CreateOrders(guest.ID, []OrderItemInput{{DishID: dish.ID, Quantity: 1}})
	require.NoError(t, err)

	payload := signedPayload(t, map[string]interface{}{
		"orderIds": "999",
		"amount":   50000,
	})
	payload["orderIds"] = strconv.FormatUint(uint64(orders[0].ID), 10)

	_, err = svc.ApplyWebhook(payload)
	assert.ErrorIs(t, err, ErrChecksumInvalid)

	stored, err := orderSvc.GetOrder(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestApplyWebhookRejectsMalformedOrderIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, testChecksumSecret)

	payload := signedPayload(t, map[string]interface{}{
		"orderIds": "not,numbers",
		"amount":   1,
	})
	_, err := svc.ApplyWebhook(payload)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
