package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const (
	bookingsNS = "nexcharge.bookings"
	stationsNS = "nexcharge.stations"
)

var (
	testNow   = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	testStart = testNow.Add(time.Hour)
	testEnd   = testStart.Add(30 * time.Minute)
)

func fixedClockService(mt *mtest.T) *Service {
	svc := NewService(mt.DB)
	svc.Now = func() time.Time { return testNow }
	return svc
}

func stationDoc(id primitive.ObjectID, chargers ...bson.D) bson.D {
	arr := bson.A{}
	for _, ch := range chargers {
		arr = append(arr, ch)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "MG Road Fast Charging"},
		{Key: "status", Value: models.StationActive},
		{Key: "availableSlots", Value: len(chargers)},
		{Key: "pricing", Value: bson.D{
			{Key: "billingModel", Value: models.BillingPerMinute},
			{Key: "unitPrice", Value: 10.0},
		}},
		{Key: "chargers", Value: arr},
	}
}

func chargerDoc(chargerID, connectorType string, available bool) bson.D {
	return bson.D{
		{Key: "chargerId", Value: chargerID},
		{Key: "connectorType", Value: connectorType},
		{Key: "powerKW", Value: 50.0},
		{Key: "isAvailable", Value: available},
		{Key: "status", Value: "operational"},
	}
}

func bookingDoc(id, userID, stationID primitive.ObjectID, chargerID, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "bookingRef", Value: "BKG-11112222"},
		{Key: "userId", Value: userID},
		{Key: "stationId", Value: stationID},
		{Key: "chargerId", Value: chargerID},
		{Key: "connectorType", Value: models.ConnectorDCCCS},
		{Key: "startTime", Value: primitive.NewDateTimeFromTime(testStart)},
		{Key: "endTime", Value: primitive.NewDateTimeFromTime(testEnd)},
		{Key: "status", Value: status},
	}
}

func updateResponse(modified int) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: modified},
		bson.E{Key: "nModified", Value: modified},
	)
}

func TestServiceCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	stationID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	req := CreateRequest{
		UserID:        userID,
		StationID:     stationID,
		ConnectorType: models.ConnectorDCCCS,
		StartTime:     testStart,
		EndTime:       testEnd,
	}

	mt.Run("claims a charger and persists a confirmed booking", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, stationsNS, mtest.FirstBatch,
				stationDoc(stationID, chargerDoc("CHG-1", models.ConnectorDCCCS, true))),
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch),
			updateResponse(1),
			mtest.CreateSuccessResponse(),
		)

		svc := fixedClockService(mt)
		booking, err := svc.Create(context.Background(), req)
		if err != nil {
			mt.Fatalf("Create() error = %v", err)
		}
		if booking.Status != models.BookingConfirmed {
			mt.Errorf("Create() status = %s, expected %s", booking.Status, models.BookingConfirmed)
		}
		if booking.ChargerID != "CHG-1" {
			mt.Errorf("Create() chargerId = %s, expected CHG-1", booking.ChargerID)
		}
		// 10 INR per minute for a 30 minute window.
		if booking.EstimatedCost != 300 {
			mt.Errorf("Create() estimatedCost = %v, expected 300", booking.EstimatedCost)
		}
	})

	mt.Run("held charger with an overlapping booking is an overlap", func(mt *mtest.T) {
		conflictID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, stationsNS, mtest.FirstBatch,
				stationDoc(stationID, chargerDoc("CHG-1", models.ConnectorDCCCS, false))),
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch,
				bookingDoc(conflictID, primitive.NewObjectID(), stationID, "CHG-1", models.BookingConfirmed)),
		)

		svc := fixedClockService(mt)
		_, err := svc.Create(context.Background(), req)
		if !errors.Is(err, ErrOverlap) {
			mt.Fatalf("Create() error = %v, expected ErrOverlap", err)
		}
		if !strings.Contains(err.Error(), "already booked") {
			mt.Errorf("Create() error message = %q, expected it to mention already booked", err.Error())
		}
	})

	mt.Run("held charger with no overlapping booking is no availability", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, stationsNS, mtest.FirstBatch,
				stationDoc(stationID, chargerDoc("CHG-1", models.ConnectorDCCCS, false))),
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch),
		)

		svc := fixedClockService(mt)
		_, err := svc.Create(context.Background(), req)
		if !errors.Is(err, ErrNoChargerAvailable) {
			mt.Fatalf("Create() error = %v, expected ErrNoChargerAvailable", err)
		}
	})

	mt.Run("no charger of the requested type", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, stationsNS, mtest.FirstBatch,
				stationDoc(stationID, chargerDoc("CHG-1", models.ConnectorACType2, true))),
		)

		svc := fixedClockService(mt)
		_, err := svc.Create(context.Background(), req)
		if !errors.Is(err, ErrNoChargerAvailable) {
			mt.Fatalf("Create() error = %v, expected ErrNoChargerAvailable", err)
		}
	})
}

func TestServiceCancel(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	bookingID := primitive.NewObjectID()
	stationID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	mt.Run("cancels an open booking and releases the charger", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch,
				bookingDoc(bookingID, userID, stationID, "CHG-1", models.BookingConfirmed)),
			updateResponse(1),
			updateResponse(1),
		)

		svc := fixedClockService(mt)
		booking, err := svc.Cancel(context.Background(), bookingID, userID, "change of plans")
		if err != nil {
			mt.Fatalf("Cancel() error = %v", err)
		}
		if booking.Status != models.BookingCancelled {
			mt.Errorf("Cancel() status = %s, expected %s", booking.Status, models.BookingCancelled)
		}
		if booking.CancelReason != "change of plans" {
			mt.Errorf("Cancel() reason = %q, expected change of plans", booking.CancelReason)
		}
		if booking.CancelledAt == nil {
			mt.Error("Cancel() cancelledAt is nil")
		}
	})

	mt.Run("second cancel is rejected before any release", func(mt *mtest.T) {
		// Only the lookup is answered; a second status update or release
		// would fail on a missing mock response.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch,
				bookingDoc(bookingID, userID, stationID, "CHG-1", models.BookingCancelled)),
		)

		svc := fixedClockService(mt)
		_, err := svc.Cancel(context.Background(), bookingID, userID, "again")
		if !errors.Is(err, ErrAlreadyClosed) {
			mt.Fatalf("Cancel() error = %v, expected ErrAlreadyClosed", err)
		}
	})

	mt.Run("cancelling another user's booking is rejected", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch,
				bookingDoc(bookingID, primitive.NewObjectID(), stationID, "CHG-1", models.BookingConfirmed)),
		)

		svc := fixedClockService(mt)
		_, err := svc.Cancel(context.Background(), bookingID, userID, "not mine")
		if !errors.Is(err, ErrNotOwner) {
			mt.Fatalf("Cancel() error = %v, expected ErrNotOwner", err)
		}
	})
}

func TestServiceConfirmPaid(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	bookingID := primitive.NewObjectID()
	stationID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	pendingDoc := func() bson.D {
		doc := bookingDoc(bookingID, userID, stationID, "", models.BookingPending)
		return append(doc, bson.E{Key: "payment", Value: bson.D{
			{Key: "orderId", Value: "order_1"},
			{Key: "status", Value: models.PaymentCreated},
		}})
	}

	mt.Run("allocates a charger and confirms", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch, pendingDoc()),
			mtest.CreateCursorResponse(0, stationsNS, mtest.FirstBatch,
				stationDoc(stationID, chargerDoc("CHG-1", models.ConnectorDCCCS, true))),
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch),
			updateResponse(1),
			updateResponse(1),
		)

		svc := fixedClockService(mt)
		booking, allocated, err := svc.ConfirmPaid(context.Background(), "order_1", "pay_1")
		if err != nil {
			mt.Fatalf("ConfirmPaid() error = %v", err)
		}
		if !allocated {
			mt.Fatal("ConfirmPaid() allocated = false, expected true")
		}
		if booking.Status != models.BookingConfirmed {
			mt.Errorf("ConfirmPaid() status = %s, expected %s", booking.Status, models.BookingConfirmed)
		}
		if booking.ChargerID != "CHG-1" {
			mt.Errorf("ConfirmPaid() chargerId = %s, expected CHG-1", booking.ChargerID)
		}
		if booking.Payment.Status != models.PaymentCompleted {
			mt.Errorf("ConfirmPaid() payment status = %s, expected %s", booking.Payment.Status, models.PaymentCompleted)
		}
	})

	mt.Run("no charger left cancels and flags the refund", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch, pendingDoc()),
			mtest.CreateCursorResponse(0, stationsNS, mtest.FirstBatch,
				stationDoc(stationID, chargerDoc("CHG-1", models.ConnectorACType2, true))),
			updateResponse(1),
		)

		svc := fixedClockService(mt)
		booking, allocated, err := svc.ConfirmPaid(context.Background(), "order_1", "pay_1")
		if err != nil {
			mt.Fatalf("ConfirmPaid() error = %v", err)
		}
		if allocated {
			mt.Fatal("ConfirmPaid() allocated = true, expected false")
		}
		if booking.Status != models.BookingCancelled {
			mt.Errorf("ConfirmPaid() status = %s, expected %s", booking.Status, models.BookingCancelled)
		}
		if !booking.Payment.NeedsRefund {
			mt.Error("ConfirmPaid() needsRefund = false, expected true")
		}
	})

	mt.Run("transient station error leaves the booking pending", func(mt *mtest.T) {
		// Only the lookup and the failing station read are answered;
		// a cancel update would fail on a missing mock response.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch, pendingDoc()),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    6,
				Name:    "HostUnreachable",
				Message: "connection lost",
			}),
		)

		svc := fixedClockService(mt)
		booking, allocated, err := svc.ConfirmPaid(context.Background(), "order_1", "pay_1")
		if err == nil {
			mt.Fatal("ConfirmPaid() error = nil, expected a transport error")
		}
		if isAllocationFailure(err) {
			mt.Errorf("ConfirmPaid() error = %v, expected a non-allocation error", err)
		}
		if allocated || booking != nil {
			mt.Errorf("ConfirmPaid() = (%v, %v), expected (nil, false)", booking, allocated)
		}
	})

	mt.Run("unknown order id", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch),
		)

		svc := fixedClockService(mt)
		_, _, err := svc.ConfirmPaid(context.Background(), "order_unknown", "pay_1")
		if !errors.Is(err, ErrBookingNotFound) {
			mt.Fatalf("ConfirmPaid() error = %v, expected ErrBookingNotFound", err)
		}
	})
}

func TestServiceTransitions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	bookingID := primitive.NewObjectID()
	stationID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	mt.Run("start requires a confirmed booking", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch,
				bookingDoc(bookingID, userID, stationID, "CHG-1", models.BookingPending)),
			updateResponse(0),
		)

		svc := fixedClockService(mt)
		_, err := svc.Start(context.Background(), bookingID)
		if !errors.Is(err, ErrBadTransition) {
			mt.Fatalf("Start() error = %v, expected ErrBadTransition", err)
		}
	})

	mt.Run("start activates a confirmed booking", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch,
				bookingDoc(bookingID, userID, stationID, "CHG-1", models.BookingConfirmed)),
			updateResponse(1),
		)

		svc := fixedClockService(mt)
		booking, err := svc.Start(context.Background(), bookingID)
		if err != nil {
			mt.Fatalf("Start() error = %v", err)
		}
		if booking.Status != models.BookingActive {
			mt.Errorf("Start() status = %s, expected %s", booking.Status, models.BookingActive)
		}
	})

	mt.Run("complete closes the session and releases the charger", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch,
				bookingDoc(bookingID, userID, stationID, "CHG-1", models.BookingActive)),
			updateResponse(1),
			updateResponse(1),
		)

		svc := fixedClockService(mt)
		booking, err := svc.Complete(context.Background(), bookingID)
		if err != nil {
			mt.Fatalf("Complete() error = %v", err)
		}
		if booking.Status != models.BookingCompleted {
			mt.Errorf("Complete() status = %s, expected %s", booking.Status, models.BookingCompleted)
		}
	})

	mt.Run("complete rejects a cancelled booking", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch,
				bookingDoc(bookingID, userID, stationID, "CHG-1", models.BookingCancelled)),
			updateResponse(0),
		)

		svc := fixedClockService(mt)
		_, err := svc.Complete(context.Background(), bookingID)
		if !errors.Is(err, ErrBadTransition) {
			mt.Fatalf("Complete() error = %v, expected ErrBadTransition", err)
		}
	})
}
