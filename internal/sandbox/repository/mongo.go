package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paquexpress/client-go/internal/core/domain"
)

const (
	accountsCollection    = "accounts"
	tenantsCollection     = "empresas"
	membershipsCollection = "memberships"
	tokensCollection      = "refresh_tokens"

	defaultMongoTimeout = 10 * time.Second
)

// MongoConfig captures the minimal settings required to establish a MongoDB
// connection.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// ConnectMongo establishes a MongoDB client, verifies connectivity with a
// ping, and returns both the client and the selected database.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// MongoAccounts implements AccountRepository on MongoDB.
type MongoAccounts struct {
	coll *mongo.Collection
}

func NewMongoAccounts(db *mongo.Database) *MongoAccounts {
	return &MongoAccounts{coll: db.Collection(accountsCollection)}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	DisplayName  string             `bson:"display_name"`
	Phone        string             `bson:"phone,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    int64              `bson:"created_at"`
}

func (r *MongoAccounts) Create(ctx context.Context, account *Account) (*Account, error) {
	doc := mongoAccount{
		Email:        account.Email,
		DisplayName:  account.DisplayName,
		Phone:        account.Phone,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return r.FindByEmail(ctx, account.Email)
}

func (r *MongoAccounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toAccount(), nil
}

func (r *MongoAccounts) FindByID(ctx context.Context, id string) (*Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toAccount(), nil
}

func (ma mongoAccount) toAccount() *Account {
	return &Account{
		ID:           ma.ID.Hex(),
		Email:        ma.Email,
		DisplayName:  ma.DisplayName,
		Phone:        ma.Phone,
		PasswordHash: ma.PasswordHash,
		CreatedAt:    unixToTime(ma.CreatedAt),
	}
}

// MongoTenants implements TenantRepository on MongoDB.
type MongoTenants struct {
	tenants     *mongo.Collection
	memberships *mongo.Collection
}

func NewMongoTenants(db *mongo.Database) *MongoTenants {
	return &MongoTenants{
		tenants:     db.Collection(tenantsCollection),
		memberships: db.Collection(membershipsCollection),
	}
}

type mongoTenant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Slug      string             `bson:"slug"`
	Name      string             `bson:"name"`
	Active    bool               `bson:"active"`
	Metadata  map[string]string  `bson:"metadata,omitempty"`
	CreatedAt int64              `bson:"created_at"`
}

type mongoMembership struct {
	AccountID string `bson:"account_id"`
	TenantID  string `bson:"tenant_id"`
	Role      string `bson:"role"`
	JoinedAt  int64  `bson:"joined_at"`
}

func (r *MongoTenants) Create(ctx context.Context, tenant *domain.Tenant) error {
	doc := mongoTenant{
		Slug:      tenant.Slug,
		Name:      tenant.Name,
		Active:    tenant.Active,
		Metadata:  tenant.Metadata,
		CreatedAt: tenant.CreatedAt.Unix(),
	}
	res, err := r.tenants.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert empresa: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		tenant.ID = oid.Hex()
	}
	return nil
}

func (r *MongoTenants) FindBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	var mt mongoTenant
	if err := r.tenants.FindOne(ctx, bson.M{"slug": slug}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find empresa: %w", err)
	}
	tenant := mt.toTenant()
	return &tenant, nil
}

func (r *MongoTenants) ListForAccount(ctx context.Context, accountID string) ([]domain.Tenant, error) {
	cur, err := r.memberships.Find(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	var mems []mongoMembership
	if err := cur.All(ctx, &mems); err != nil {
		return nil, fmt.Errorf("decode memberships: %w", err)
	}

	var out []domain.Tenant
	for _, mem := range mems {
		oid, err := primitive.ObjectIDFromHex(mem.TenantID)
		if err != nil {
			continue
		}
		var mt mongoTenant
		if err := r.tenants.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, fmt.Errorf("find empresa: %w", err)
		}
		out = append(out, mt.toTenant())
	}
	return out, nil
}

func (r *MongoTenants) Membership(ctx context.Context, accountID, slug string) (*Membership, error) {
	var mt mongoTenant
	if err := r.tenants.FindOne(ctx, bson.M{"slug": slug}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find empresa: %w", err)
	}

	var mem mongoMembership
	filter := bson.M{"account_id": accountID, "tenant_id": mt.ID.Hex()}
	if err := r.memberships.FindOne(ctx, filter).Decode(&mem); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}

	role, err := domain.ParseRole(mem.Role)
	if err != nil {
		return nil, err
	}
	return &Membership{
		AccountID: mem.AccountID,
		TenantID:  mem.TenantID,
		Role:      role,
		JoinedAt:  unixToTime(mem.JoinedAt),
	}, nil
}

func (r *MongoTenants) AddMembership(ctx context.Context, m *Membership) error {
	doc := mongoMembership{
		AccountID: m.AccountID,
		TenantID:  m.TenantID,
		Role:      string(m.Role),
		JoinedAt:  m.JoinedAt.Unix(),
	}
	if _, err := r.memberships.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (mt mongoTenant) toTenant() domain.Tenant {
	return domain.Tenant{
		ID:        mt.ID.Hex(),
		Slug:      mt.Slug,
		Name:      mt.Name,
		Active:    mt.Active,
		Metadata:  mt.Metadata,
		CreatedAt: unixToTime(mt.CreatedAt),
	}
}

// MongoTokens implements RefreshTokenRepository on MongoDB.
type MongoTokens struct {
	coll *mongo.Collection
}

func NewMongoTokens(db *mongo.Database) *MongoTokens {
	return &MongoTokens{coll: db.Collection(tokensCollection)}
}

type mongoToken struct {
	AccountID string `bson:"account_id"`
	Hash      string `bson:"hash"`
	ExpiresAt int64  `bson:"expires_at"`
}

func (r *MongoTokens) Store(ctx context.Context, token *RefreshToken) error {
	doc := mongoToken{
		AccountID: token.AccountID,
		Hash:      token.Hash,
		ExpiresAt: token.ExpiresAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *MongoTokens) Find(ctx context.Context, hash string) (*RefreshToken, error) {
	var mt mongoToken
	if err := r.coll.FindOne(ctx, bson.M{"hash": hash}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &RefreshToken{
		AccountID: mt.AccountID,
		Hash:      mt.Hash,
		ExpiresAt: unixToTime(mt.ExpiresAt),
	}, nil
}

func (r *MongoTokens) RevokeAll(ctx context.Context, accountID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
