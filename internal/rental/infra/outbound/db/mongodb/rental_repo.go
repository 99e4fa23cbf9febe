package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	// --- Importaciones del dominio y compartidas ---
	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// RentalRepoMongoDB implementa la interfaz RentalRepository para MongoDB.
type RentalRepoMongoDB struct {
	client      *mongo.Client
	dbName      string
	rentalsColl *mongo.Collection
	outboxColl  *mongo.Collection
}

// NewRentalRepoMongoDB es el constructor del repositorio.
func NewRentalRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*RentalRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(dbName)
	return &RentalRepoMongoDB{
		client:      client,
		dbName:      dbName,
		rentalsColl: db.Collection("rentals"),
		outboxColl:  db.Collection("outbox"),
	}, nil
}

// Verificación estática
var _ rentalDomain.RentalRepository = (*RentalRepoMongoDB)(nil)

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoRental struct {
	ID         uuid.UUID `bson:"_id"`
	CartID     uuid.UUID `bson:"cartId"`
	UserID     uuid.UUID `bson:"userId"`
	StartDate  time.Time `bson:"startDate"`
	EndDate    time.Time `bson:"endDate"`
	Status     string    `bson:"status"`
	TotalPrice string    `bson:"totalPrice"`
	CreatedAt  time.Time `bson:"createdAt"`
}

type mongoOutboxEvent struct {
	ID            uuid.UUID   `bson:"_id"`
	AggregateType string      `bson:"aggregateType"`
	AggregateID   string      `bson:"aggregateId"`
	EventType     string      `bson:"eventType"`
	Payload       interface{} `bson:"payload"`
	CreatedAt     time.Time   `bson:"createdAt"`
	Processed     bool        `bson:"processed"`
}

// --- CRUD Transaccional ---

func (r *RentalRepoMongoDB) Create(ctx context.Context, rental *rentalDomain.Rental, evt sharedDomain.OutboxEvent) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	// La transacción asegura que ambas inserciones (reserva y evento) sean atómicas.
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		mr := toMongoRental(rental)
		if _, err := r.rentalsColl.InsertOne(sessCtx, mr); err != nil {
			return nil, err
		}
		mo := toMongoOutboxEvent(evt)
		if _, err := r.outboxColl.InsertOne(sessCtx, mo); err != nil {
			return nil, err
		}
		return nil, nil
	})

	return err
}

func (r *RentalRepoMongoDB) UpdateStatus(ctx context.Context, rental *rentalDomain.Rental, evt sharedDomain.OutboxEvent) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"_id": rental.ID}
		update := bson.M{"$set": bson.M{"status": string(rental.Status)}}

		res, err := r.rentalsColl.UpdateOne(sessCtx, filter, update)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, rentalDomain.ErrRentalNotFound
		}

		mo := toMongoOutboxEvent(evt)
		if _, err := r.outboxColl.InsertOne(sessCtx, mo); err != nil {
			return nil, err
		}

		return nil, nil
	})

	return err
}

// --- Lectura ---

func (r *RentalRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*rentalDomain.Rental, error) {
	var mr mongoRental
	err := r.rentalsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&mr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, rentalDomain.ErrRentalNotFound
		}
		return nil, err
	}
	return fromMongoRental(&mr)
}

func (r *RentalRepoMongoDB) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*rentalDomain.Rental, error) {
	filter := criteriaToMongoFilter(criteria)
	opts := options.Find()

	// Paginación
	if p, ok := pagination.(sharedQuery.OffsetPagination); ok {
		opts.SetSkip(int64(p.Offset))
		opts.SetLimit(int64(p.Limit))
	}

	// Ordenamiento
	if sort.Field != "" {
		sortDir := 1 // Ascendente por defecto
		if sort.Desc {
			sortDir = -1 // Descendente
		}
		opts.SetSort(bson.D{{Key: mongoField(sort.Field), Value: sortDir}})
	}

	cursor, err := r.rentalsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rentals []*rentalDomain.Rental
	for cursor.Next(ctx) {
		var mr mongoRental
		if err := cursor.Decode(&mr); err != nil {
			return nil, err
		}
		rental, err := fromMongoRental(&mr)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}

	return rentals, cursor.Err()
}

// ListOpen devuelve las reservas pending/active.
func (r *RentalRepoMongoDB) ListOpen(ctx context.Context) ([]*rentalDomain.Rental, error) {
	filter := bson.M{"status": bson.M{"$in": []string{
		string(rentalDomain.RentalPending), string(rentalDomain.RentalActive),
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.rentalsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rentals []*rentalDomain.Rental
	for cursor.Next(ctx) {
		var mr mongoRental
		if err := cursor.Decode(&mr); err != nil {
			return nil, err
		}
		rental, err := fromMongoRental(&mr)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}

	return rentals, cursor.Err()
}

// --- Helpers de Mapeo y Conversión ---

func toMongoRental(rental *rentalDomain.Rental) *mongoRental {
	return &mongoRental{
		ID: rental.ID, CartID: rental.CartID, UserID: rental.UserID,
		StartDate: rental.StartDate, EndDate: rental.EndDate,
		Status: string(rental.Status), TotalPrice: rental.TotalPrice.String(), CreatedAt: rental.CreatedAt,
	}
}

func fromMongoRental(mr *mongoRental) (*rentalDomain.Rental, error) {
	price, err := decimal.NewFromString(mr.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid price in document %s: %w", mr.ID, err)
	}
	return &rentalDomain.Rental{
		ID: mr.ID, CartID: mr.CartID, UserID: mr.UserID,
		StartDate: mr.StartDate, EndDate: mr.EndDate,
		Status: rentalDomain.RentalStatus(mr.Status), TotalPrice: price, CreatedAt: mr.CreatedAt,
	}, nil
}

func toMongoOutboxEvent(evt sharedDomain.OutboxEvent) *mongoOutboxEvent {
	return &mongoOutboxEvent{
		ID: evt.ID, AggregateType: evt.AggregateType, AggregateID: evt.AggregateID,
		EventType: evt.EventType, Payload: evt.Payload, CreatedAt: evt.CreatedAt, Processed: false,
	}
}

// mongoField traduce los nombres de columna SQL a claves del documento.
func mongoField(field string) string {
	switch field {
	case "id":
		return "_id"
	case "cart_id":
		return "cartId"
	case "user_id":
		return "userId"
	case "start_date":
		return "startDate"
	case "end_date":
		return "endDate"
	case "created_at":
		return "createdAt"
	default:
		return field
	}
}

func criteriaToMongoFilter(criteria sharedDomain.Criteria) bson.D {
	if criteria == nil {
		return bson.D{}
	}
	conds := criteria.ToConditions()
	if len(conds) == 0 {
		return bson.D{}
	}

	filter := bson.D{}
	for _, c := range conds {
		// Mapeo de operadores genéricos a operadores de MongoDB
		var mongoOp string
		switch c.Op {
		case sharedDomain.OpEq:
			mongoOp = "$eq"
		case sharedDomain.OpGt:
			mongoOp = "$gt"
		case sharedDomain.OpGte:
			mongoOp = "$gte"
		case sharedDomain.OpLt:
			mongoOp = "$lt"
		case sharedDomain.OpLte:
			mongoOp = "$lte"
		case sharedDomain.OpLike, sharedDomain.OpILike:
			mongoOp = "$regex"
		default:
			mongoOp = "$eq" // Operador por defecto
		}

		// Para ILIKE, añadimos la opción 'i' de insensibilidad a mayúsculas
		if c.Op == sharedDomain.OpILike {
			filter = append(filter, bson.E{Key: mongoField(c.Field), Value: bson.M{mongoOp: strings.Trim(c.Value.(string), "%"), "$options": "i"}})
		} else {
			filter = append(filter, bson.E{Key: mongoField(c.Field), Value: bson.M{mongoOp: c.Value}})
		}
	}
	return filter
}
