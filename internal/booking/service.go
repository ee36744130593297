package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrStationNotFound    = errors.New("station not found")
	ErrStationInactive    = errors.New("station is not active")
	ErrNoChargerAvailable = errors.New("no available charger of the requested type")
	ErrOverlap            = errors.New("charger is already booked for this time slot")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrNotOwner           = errors.New("booking belongs to another user")
	ErrAlreadyClosed      = errors.New("booking is already cancelled or completed")
	ErrBadTransition      = errors.New("booking is not in a state that allows this transition")
)

// openStatuses are the booking states that hold a charger and block
// overlapping reservations.
var openStatuses = []string{models.BookingPending, models.BookingConfirmed, models.BookingActive}

// OrderCreator opens a payment-gateway order for a pending booking.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (string, error)
}

// Service implements the booking lifecycle: window validation, overlap
// rejection, charger claim/release and status transitions. Charger claims
// are single conditional updates keyed on the availability flag, so two
// concurrent requests cannot both take the last charger.
type Service struct {
	DB  *mongo.Database
	Now func() time.Time
}

func NewService(db *mongo.Database) *Service {
	return &Service{DB: db, Now: time.Now}
}

// CreateRequest is the input for both the pre-paid and payment-gated flows.
type CreateRequest struct {
	UserID        primitive.ObjectID
	StationID     primitive.ObjectID
	ConnectorType string
	StartTime     time.Time
	EndTime       time.Time
}

// Create makes a confirmed booking in one step (pre-paid flow): it validates
// the window, rejects overlaps, claims a charger and persists the booking.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Booking, error) {
	now := s.Now()
	if err := ValidateWindow(now, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	station, err := s.loadActiveStation(ctx, req.StationID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.eligibleChargers(ctx, station, req.ConnectorType, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	bookingID := primitive.NewObjectID()
	claimed, err := s.claimCharger(ctx, station.ID, eligible, bookingID, now)
	if err != nil {
		return nil, err
	}

	powerKW := chargerPower(station, claimed)
	booking := models.Booking{
		ID:            bookingID,
		BookingRef:    newBookingRef(),
		UserID:        req.UserID,
		StationID:     station.ID,
		ChargerID:     claimed,
		ConnectorType: req.ConnectorType,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        models.BookingConfirmed,
		Pricing:       station.Pricing,
		EstimatedCost: EstimateCost(station.Pricing, powerKW, req.StartTime, req.EndTime),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.DB.Collection("bookings").InsertOne(ctx, booking); err != nil {
		// Booking was never persisted, give the charger back.
		s.releaseCharger(ctx, station.ID, claimed, bookingID, now)
		return nil, err
	}

	return &booking, nil
}

// Initiate starts the payment-gated flow: it validates the request, opens a
// gateway order for the estimated cost and persists a pending booking with
// no charger allocated yet. The charger is claimed only after the payment
// callback verifies.
func (s *Service) Initiate(ctx context.Context, req CreateRequest, gateway OrderCreator) (*models.Booking, error) {
	now := s.Now()
	if err := ValidateWindow(now, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	station, err := s.loadActiveStation(ctx, req.StationID)
	if err != nil {
		return nil, err
	}

	// Reject up front if nothing could possibly be allocated; the claim
	// itself happens at confirmation time.
	if _, err := s.eligibleChargers(ctx, station, req.ConnectorType, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	cost := EstimateCost(station.Pricing, maxPowerKW(station, req.ConnectorType), req.StartTime, req.EndTime)
	ref := newBookingRef()

	orderID, err := gateway.CreateOrder(ctx, MinorUnits(cost), "INR", ref)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	booking := models.Booking{
		ID:            primitive.NewObjectID(),
		BookingRef:    ref,
		UserID:        req.UserID,
		StationID:     station.ID,
		ConnectorType: req.ConnectorType,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        models.BookingPending,
		Pricing:       station.Pricing,
		EstimatedCost: cost,
		Payment: models.PaymentInfo{
			OrderID:          orderID,
			Status:           models.PaymentCreated,
			AmountMinorUnits: MinorUnits(cost),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.DB.Collection("bookings").InsertOne(ctx, booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

// ConfirmPaid finalizes a pending booking after its payment has been
// verified. It re-resolves an available charger; if none remains the booking
// is cancelled with the payment flagged for refund, since the charge already
// succeeded. Returns the updated booking and whether a charger was allocated.
func (s *Service) ConfirmPaid(ctx context.Context, orderID, paymentID string) (*models.Booking, bool, error) {
	now := s.Now()

	var booking models.Booking
	err := s.DB.Collection("bookings").FindOne(ctx, bson.M{
		"payment.orderId": orderID,
		"status":          models.BookingPending,
	}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, ErrBookingNotFound
		}
		return nil, false, err
	}

	station, err := s.loadActiveStation(ctx, booking.StationID)

	var claimed string
	if err == nil {
		var eligible []string
		eligible, err = s.eligibleChargers(ctx, station, booking.ConnectorType, booking.StartTime, booking.EndTime)
		if err == nil {
			claimed, err = s.claimCharger(ctx, station.ID, eligible, booking.ID, now)
		}
	}

	if err != nil {
		// Transport failures leave the booking pending so the gateway
		// callback can be retried.
		if !isAllocationFailure(err) {
			return nil, false, err
		}
		// Payment succeeded but no charger can be allocated: close the
		// booking and flag the payment so an operator can refund it.
		update := bson.M{"$set": bson.M{
			"status":              models.BookingCancelled,
			"cancelReason":        "no charger available after payment",
			"cancelledAt":         now,
			"chargerId":           "",
			"payment.paymentId":   paymentID,
			"payment.status":      models.PaymentCompleted,
			"payment.needsRefund": true,
			"updatedAt":           now,
		}}
		if _, uerr := s.DB.Collection("bookings").UpdateByID(ctx, booking.ID, update); uerr != nil {
			return nil, false, uerr
		}
		booking.Status = models.BookingCancelled
		booking.Payment.PaymentID = paymentID
		booking.Payment.Status = models.PaymentCompleted
		booking.Payment.NeedsRefund = true
		return &booking, false, nil
	}

	update := bson.M{"$set": bson.M{
		"status":            models.BookingConfirmed,
		"chargerId":         claimed,
		"payment.paymentId": paymentID,
		"payment.status":    models.PaymentCompleted,
		"updatedAt":         now,
	}}
	if _, err := s.DB.Collection("bookings").UpdateByID(ctx, booking.ID, update); err != nil {
		s.releaseCharger(ctx, station.ID, claimed, booking.ID, now)
		return nil, false, err
	}

	booking.Status = models.BookingConfirmed
	booking.ChargerID = claimed
	booking.Payment.PaymentID = paymentID
	booking.Payment.Status = models.PaymentCompleted
	return &booking, true, nil
}

// Cancel closes a booking on behalf of its owner and releases the charger.
// Cancelling an already cancelled or completed booking is rejected, so a
// double cancel can never release (or count) a charger twice.
func (s *Service) Cancel(ctx context.Context, bookingID, userID primitive.ObjectID, reason string) (*models.Booking, error) {
	now := s.Now()

	var booking models.Booking
	err := s.DB.Collection("bookings").FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	if booking.Status == models.BookingCancelled || booking.Status == models.BookingCompleted {
		return nil, ErrAlreadyClosed
	}

	// Conditional on the status still being open, in case a concurrent
	// cancel or completion got there first.
	res, err := s.DB.Collection("bookings").UpdateOne(ctx,
		bson.M{"_id": bookingID, "status": bson.M{"$in": openStatuses}},
		bson.M{"$set": bson.M{
			"status":       models.BookingCancelled,
			"cancelReason": reason,
			"cancelledAt":  now,
			"updatedAt":    now,
		}})
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, ErrAlreadyClosed
	}

	if booking.ChargerID != "" {
		s.releaseCharger(ctx, booking.StationID, booking.ChargerID, booking.ID, now)
	}

	booking.Status = models.BookingCancelled
	booking.CancelReason = reason
	booking.CancelledAt = &now
	return &booking, nil
}

// Start marks a confirmed booking as active when the charging session
// begins.
func (s *Service) Start(ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, error) {
	return s.transition(ctx, bookingID, []string{models.BookingConfirmed}, models.BookingActive, false)
}

// Complete closes a confirmed or active booking and releases its charger.
func (s *Service) Complete(ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, error) {
	return s.transition(ctx, bookingID, []string{models.BookingConfirmed, models.BookingActive}, models.BookingCompleted, true)
}

func (s *Service) transition(ctx context.Context, bookingID primitive.ObjectID, from []string, to string, release bool) (*models.Booking, error) {
	now := s.Now()

	var booking models.Booking
	err := s.DB.Collection("bookings").FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	res, err := s.DB.Collection("bookings").UpdateOne(ctx,
		bson.M{"_id": bookingID, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updatedAt": now}})
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, ErrBadTransition
	}

	if release && booking.ChargerID != "" {
		s.releaseCharger(ctx, booking.StationID, booking.ChargerID, booking.ID, now)
	}

	booking.Status = to
	return &booking, nil
}

// isAllocationFailure reports whether the error means no charger can be
// allocated for the booking, as opposed to a transport failure that may
// succeed on retry.
func isAllocationFailure(err error) bool {
	return errors.Is(err, ErrNoChargerAvailable) ||
		errors.Is(err, ErrOverlap) ||
		errors.Is(err, ErrStationNotFound) ||
		errors.Is(err, ErrStationInactive)
}

// loadActiveStation fetches a station and checks its operational status.
func (s *Service) loadActiveStation(ctx context.Context, stationID primitive.ObjectID) (*models.Station, error) {
	var station models.Station
	err := s.DB.Collection("stations").FindOne(ctx, bson.M{"_id": stationID}).Decode(&station)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	if station.Status != models.StationActive {
		return nil, ErrStationInactive
	}
	return &station, nil
}

// eligibleChargers returns the ids of chargers that match the connector
// type, are marked available and have no open booking overlapping the
// requested window. Overlap uses half-open semantics: an existing booking
// conflicts when existing.start < end and existing.end > start.
//
// The overlap query runs over every operational charger of the type, not
// just the available ones, so a slot held by an overlapping booking is
// reported as an overlap rather than as a missing charger.
func (s *Service) eligibleChargers(ctx context.Context, station *models.Station, connectorType string, start, end time.Time) ([]string, error) {
	typed := ChargersOfType(station, connectorType)
	if len(typed) == 0 {
		return nil, ErrNoChargerAvailable
	}

	cursor, err := s.DB.Collection("bookings").Find(ctx, bson.M{
		"stationId": station.ID,
		"chargerId": bson.M{"$in": typed},
		"status":    bson.M{"$in": openStatuses},
		"startTime": bson.M{"$lt": end},
		"endTime":   bson.M{"$gt": start},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conflicting []models.Booking
	if err := cursor.All(ctx, &conflicting); err != nil {
		return nil, err
	}

	busy := make(map[string]bool, len(conflicting))
	for _, b := range conflicting {
		busy[b.ChargerID] = true
	}

	var eligible []string
	for _, id := range CandidateChargers(station, connectorType) {
		if !busy[id] {
			eligible = append(eligible, id)
		}
	}
	if len(eligible) == 0 {
		if len(busy) > 0 {
			return nil, ErrOverlap
		}
		return nil, ErrNoChargerAvailable
	}
	return eligible, nil
}

// claimCharger takes one of the eligible chargers with a conditional update
// keyed on the availability flag. If a concurrent request claimed a charger
// between the read and the write, its update simply matches nothing and the
// next candidate is tried.
func (s *Service) claimCharger(ctx context.Context, stationID primitive.ObjectID, eligible []string, bookingID primitive.ObjectID, now time.Time) (string, error) {
	for _, chargerID := range eligible {
		res, err := s.DB.Collection("stations").UpdateOne(ctx,
			bson.M{
				"_id":      stationID,
				"chargers": bson.M{"$elemMatch": bson.M{"chargerId": chargerID, "isAvailable": true}},
			},
			bson.M{
				"$set": bson.M{
					"chargers.$.isAvailable":      false,
					"chargers.$.currentBookingId": bookingID,
					"updatedAt":                   now,
				},
				"$inc": bson.M{"availableSlots": -1},
			})
		if err != nil {
			return "", err
		}
		if res.ModifiedCount == 1 {
			return chargerID, nil
		}
	}
	return "", ErrNoChargerAvailable
}

// releaseCharger restores a charger's availability. The filter is keyed on
// currentBookingId, so releasing twice for the same booking matches nothing
// the second time and the slot counter is incremented exactly once.
func (s *Service) releaseCharger(ctx context.Context, stationID primitive.ObjectID, chargerID string, bookingID primitive.ObjectID, now time.Time) {
	_, err := s.DB.Collection("stations").UpdateOne(ctx,
		bson.M{
			"_id":      stationID,
			"chargers": bson.M{"$elemMatch": bson.M{"chargerId": chargerID, "currentBookingId": bookingID}},
		},
		bson.M{
			"$set":   bson.M{"chargers.$.isAvailable": true, "updatedAt": now},
			"$unset": bson.M{"chargers.$.currentBookingId": ""},
			"$inc":   bson.M{"availableSlots": 1},
		})
	if err != nil {
		// The booking itself is already closed; an unreleased charger is
		// recoverable by the station manager.
		log.Printf("failed to release charger %s on station %s: %v", chargerID, stationID.Hex(), err)
	}
}

// CandidateChargers returns the ids of operational, available chargers of
// the given connector type, in station order.
func CandidateChargers(station *models.Station, connectorType string) []string {
	var ids []string
	for _, ch := range station.Chargers {
		if ch.ConnectorType == connectorType && ch.IsAvailable && ch.Status != "faulty" {
			ids = append(ids, ch.ChargerID)
		}
	}
	return ids
}

// ChargersOfType returns the ids of every operational charger of the given
// connector type, held or not.
func ChargersOfType(station *models.Station, connectorType string) []string {
	var ids []string
	for _, ch := range station.Chargers {
		if ch.ConnectorType == connectorType && ch.Status != "faulty" {
			ids = append(ids, ch.ChargerID)
		}
	}
	return ids
}

func chargerPower(station *models.Station, chargerID string) float64 {
	for _, ch := range station.Chargers {
		if ch.ChargerID == chargerID {
			return ch.PowerKW
		}
	}
	return 0
}

func newBookingRef() string {
	return "BKG-" + uuid.New().String()[:8]
}
