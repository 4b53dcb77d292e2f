package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zzafergok/mobiversite-ecommerce/models"
)

type productRow struct {
	ID          string  `gorm:"primaryKey;type:varchar(64)"`
	Title       string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	Description string
	Category    string `gorm:"index;not null"`
	Image       string
}

func (productRow) TableName() string { return "products" }

func (r productRow) toModel() models.Product {
	return models.Product{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
	}
}

type userRow struct {
	ID           string `gorm:"primaryKey;type:varchar(64)"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Address:   r.Address,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type cartRow struct {
	UserID    string            `gorm:"primaryKey;type:varchar(64)"`
	Items     []models.LineItem `gorm:"serializer:json;type:jsonb"`
	UpdatedAt time.Time
}

func (cartRow) TableName() string { return "carts" }

type orderRow struct {
	ID              string            `gorm:"primaryKey;type:varchar(64)"`
	UserID          string            `gorm:"index;not null"`
	Items           []models.LineItem `gorm:"serializer:json;type:jsonb"`
	Total           float64
	Status          string
	ShippingAddress string
	CreatedAt       time.Time
}

func (orderRow) TableName() string { return "orders" }

func (r orderRow) toModel() models.Order {
	return models.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Date:            r.CreatedAt,
		Items:           r.Items,
		Total:           r.Total,
		Status:          r.Status,
		ShippingAddress: r.ShippingAddress,
		CreatedAt:       r.CreatedAt,
	}
}

// PostgresGateway is the database-backed gateway. Carts are one row per user,
// upserted on every write.
type PostgresGateway struct {
	db *gorm.DB
}

func NewPostgresGateway(db *gorm.DB) *PostgresGateway {
	return &PostgresGateway{db: db}
}

// AutoMigrate creates or updates the gateway tables.
func (g *PostgresGateway) AutoMigrate() error {
	return g.db.AutoMigrate(&productRow{}, &userRow{}, &cartRow{}, &orderRow{})
}

// SeedProducts inserts products that are not yet present.
func (g *PostgresGateway) SeedProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow{ID: p.ID, Title: p.Title, Price: p.Price, Description: p.Description, Category: p.Category, Image: p.Image})
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (g *PostgresGateway) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	if err := g.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsFromRows(rows), nil
}

func (g *PostgresGateway) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var row productRow
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := row.toModel()
	return &p, nil
}

func (g *PostgresGateway) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var rows []productRow
	if err := g.db.WithContext(ctx).Where("category = ?", category).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsFromRows(rows), nil
}

func (g *PostgresGateway) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := g.db.WithContext(ctx).Model(&productRow{}).Distinct().Order("category").Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func productsFromRows(rows []productRow) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out
}

func (g *PostgresGateway) GetUserCart(ctx context.Context, userID string) (*models.Cart, error) {
	var row cartRow
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.Cart{UserID: row.UserID, Items: row.Items, UpdatedAt: row.UpdatedAt}, nil
}

func (g *PostgresGateway) UpdateUserCart(ctx context.Context, userID string, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	row := cartRow{UserID: userID, Items: items, UpdatedAt: time.Now().UTC()}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&row).Error
}

func (g *PostgresGateway) ClearUserCart(ctx context.Context, userID string) error {
	return g.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&cartRow{}).Error
}

func (g *PostgresGateway) GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	var row userRow
	err := g.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return row.toModel(), nil
}

func (g *PostgresGateway) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (g *PostgresGateway) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	row := userRow{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: string(hash),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		Address:      user.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (g *PostgresGateway) UpdateUserPartial(ctx context.Context, id string, patch models.ProfilePatch) (*models.User, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if patch.Username != nil {
		updates["username"] = *patch.Username
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.FirstName != nil {
		updates["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		updates["last_name"] = *patch.LastName
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}

	result := g.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return g.GetUserByID(ctx, id)
}

func (g *PostgresGateway) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	return g.exists(ctx, "username = ?", username)
}

func (g *PostgresGateway) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	return g.exists(ctx, "email = ?", email)
}

func (g *PostgresGateway) exists(ctx context.Context, cond string, arg interface{}) (bool, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&userRow{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *PostgresGateway) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var rows []orderRow
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (g *PostgresGateway) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var row orderRow
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o := row.toModel()
	return &o, nil
}

func (g *PostgresGateway) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	row := orderRow{
		ID:              order.ID,
		UserID:          order.UserID,
		Items:           copyItems(order.Items),
		Total:           order.Total,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	o := row.toModel()
	return &o, nil
}
