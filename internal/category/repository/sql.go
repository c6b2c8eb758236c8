package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (name, description, icon)
        VALUES (:name, :description, :icon)
        RETURNING id
    `
	err := database.NamedGet(ctx, r.DB, &c.ID, query, c)
	if database.IsUniqueViolation(err) {
		return apperror.InvalidInput("category %q already exists", c.Name)
	}
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	query := r.DB.Rebind(`SELECT id, name, description, icon FROM categories WHERE id = ?`)
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("category %d not found", id)
		}
		return nil, err
	}
	return &category, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	categories := []model.Category{}
	var count int

	where := database.NewWhere()
	if f.Search != "" {
		where.And("LOWER(name) LIKE :search", "search", "%"+toLower(f.Search)+"%")
	}

	countQuery := "SELECT count(*) FROM categories" + where.Clause()
	if err := database.NamedGet(ctx, r.DB, &count, countQuery, where.Args()); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, name, description, icon FROM categories" + where.Clause() + " ORDER BY name ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := database.NamedSelect(ctx, r.DB, &categories, query, where.Args()); err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET name = :name,
            description = :description,
            icon = :icon
        WHERE id = :id
    `
	bound, args, err := r.DB.BindNamed(query, c)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, bound, args...)
	if database.IsUniqueViolation(err) {
		return apperror.InvalidInput("category %q already exists", c.Name)
	}
	if err != nil {
		return err
	}
	return requireAffected(res, "category %d not found", c.ID)
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	// products.category_id is ON DELETE SET NULL
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM categories WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "category %d not found", id)
}
