package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HeadlineRepoMongoDB implementa HeadlineDataSource para MongoDB.
// Orden interno: publishedAt DESC, _id DESC.
type HeadlineRepoMongoDB struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewHeadlineRepoMongoDB es el constructor del repositorio.
func NewHeadlineRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*HeadlineRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	return &HeadlineRepoMongoDB{
		client: client,
		coll:   client.Database(dbName).Collection("headlines"),
	}, nil
}

var _ headlineDomain.HeadlineDataSource = (*HeadlineRepoMongoDB)(nil)

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoHeadline struct {
	ID             string    `bson:"_id"`
	Title          string    `bson:"title"`
	Description    string    `bson:"description"`
	URL            string    `bson:"url"`
	ImageURL       string    `bson:"imageUrl"`
	Source         string    `bson:"source"`
	Categories     []string  `bson:"categories"`
	EventCountries []string  `bson:"eventCountries"`
	PublishedAt    time.Time `bson:"publishedAt"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func toMongoHeadline(h *headlineDomain.Headline) mongoHeadline {
	cats := make([]string, len(h.Categories))
	for i, c := range h.Categories {
		cats[i] = string(c)
	}
	countries := make([]string, len(h.EventCountries))
	for i, c := range h.EventCountries {
		countries[i] = string(c)
	}
	return mongoHeadline{
		ID:             h.ID.String(),
		Title:          h.Title,
		Description:    h.Description,
		URL:            h.URL,
		ImageURL:       h.ImageURL,
		Source:         string(h.Source),
		Categories:     cats,
		EventCountries: countries,
		PublishedAt:    h.PublishedAt.UTC(),
		CreatedAt:      h.CreatedAt.UTC(),
	}
}

func fromMongoHeadline(m mongoHeadline) (*headlineDomain.Headline, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid headline id %q", m.ID)
	}
	var cats []headlineDomain.CategoryRef
	for _, c := range m.Categories {
		cats = append(cats, headlineDomain.CategoryRef(c))
	}
	var countries []headlineDomain.CountryRef
	for _, c := range m.EventCountries {
		countries = append(countries, headlineDomain.CountryRef(c))
	}
	return &headlineDomain.Headline{
		ID:             id,
		Title:          m.Title,
		Description:    m.Description,
		URL:            m.URL,
		ImageURL:       m.ImageURL,
		Source:         headlineDomain.SourceRef(m.Source),
		Categories:     cats,
		EventCountries: countries,
		PublishedAt:    m.PublishedAt,
		CreatedAt:      m.CreatedAt,
	}, nil
}

// Traduce el filtro compuesto: $in por campo (OR dentro del campo), $and
// implícito entre campos al combinar claves del documento de filtro.
func filterToBSON(f headlineDomain.Filter) bson.M {
	out := bson.M{}
	for _, c := range f.ToConditions() {
		switch v := c.Value.(type) {
		case []headlineDomain.CategoryRef:
			out["categories"] = bson.M{"$in": v}
		case []headlineDomain.SourceRef:
			out["source"] = bson.M{"$in": v}
		case []headlineDomain.CountryRef:
			out["eventCountries"] = bson.M{"$in": v}
		}
	}
	return out
}

var headlineSort = bson.D{
	primitive.E{Key: "publishedAt", Value: -1},
	primitive.E{Key: "_id", Value: -1},
}

// ------------------ Lectura ------------------

func (r *HeadlineRepoMongoDB) List(ctx context.Context, q headlineDomain.ListQuery) ([]*headlineDomain.Headline, error) {
	filter := filterToBSON(q.Filter)

	if q.Cursor != nil {
		after, err := r.cursorBound(ctx, *q.Cursor, headlineDomain.ErrFetchFailed)
		if err != nil {
			return nil, err
		}
		filter["$or"] = after
	}

	opts := options.Find().SetSort(headlineSort)
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	return r.find(ctx, filter, opts, headlineDomain.ErrFetchFailed)
}

// cursorBound construye la condición "estrictamente después del registro con
// este ID" según el orden (publishedAt, _id) DESC. Un cursor cuyo registro ya
// no existe devuelve ErrHeadlineNotFound.
func (r *HeadlineRepoMongoDB) cursorBound(ctx context.Context, cursor uuid.UUID, kind error) ([]bson.M, error) {
	var anchor mongoHeadline
	err := r.coll.FindOne(ctx, bson.M{"_id": cursor.String()}).Decode(&anchor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, headlineDomain.ErrHeadlineNotFound
		}
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	return []bson.M{
		{"publishedAt": bson.M{"$lt": anchor.PublishedAt}},
		{"publishedAt": anchor.PublishedAt, "_id": bson.M{"$lt": anchor.ID}},
	}, nil
}

func (r *HeadlineRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*headlineDomain.Headline, error) {
	var m mongoHeadline
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, headlineDomain.ErrHeadlineNotFound
		}
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrFetchFailed, err)
	}
	return fromMongoHeadline(m)
}

func (r *HeadlineRepoMongoDB) Search(ctx context.Context, text string, limit int, cursor *uuid.UUID) ([]*headlineDomain.Headline, error) {
	pattern := primitive.Regex{Pattern: text, Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"title": pattern},
		{"description": pattern},
	}}

	if cursor != nil {
		after, err := r.cursorBound(ctx, *cursor, headlineDomain.ErrSearchFailed)
		if err != nil {
			return nil, err
		}
		filter = bson.M{"$and": []bson.M{filter, {"$or": after}}}
	}

	opts := options.Find().SetSort(headlineSort)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	return r.find(ctx, filter, opts, headlineDomain.ErrSearchFailed)
}

// find etiqueta cualquier fallo con el centinela de la operación que lo
// invoca, de modo que cada ruta lleve exactamente una familia.
func (r *HeadlineRepoMongoDB) find(ctx context.Context, filter bson.M, opts *options.FindOptions, kind error) ([]*headlineDomain.Headline, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	defer cur.Close(ctx)

	var headlines []*headlineDomain.Headline
	for cur.Next(ctx) {
		var m mongoHeadline
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %w", kind, err)
		}
		h, err := fromMongoHeadline(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", kind, err)
		}
		headlines = append(headlines, h)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	return headlines, nil
}

// ------------------ Escritura ------------------

func (r *HeadlineRepoMongoDB) Create(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	if _, err := r.coll.InsertOne(ctx, toMongoHeadline(h)); err != nil {
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrCreateFailed, err)
	}
	return h, nil
}

func (r *HeadlineRepoMongoDB) Update(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	m := toMongoHeadline(h)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": m})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrUpdateFailed, err)
	}
	if res.MatchedCount == 0 {
		return nil, headlineDomain.ErrHeadlineNotFound
	}
	return h, nil
}

func (r *HeadlineRepoMongoDB) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("%w: %w", headlineDomain.ErrDeleteFailed, err)
	}
	if res.DeletedCount == 0 {
		return headlineDomain.ErrHeadlineNotFound
	}
	return nil
}
