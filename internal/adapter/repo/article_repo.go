package repo

import (
	"context"

	"scriptflow/internal/domain"
	"scriptflow/internal/infra"
	"scriptflow/internal/sqlinline"
)

// ArticleRepositoryPG implements domain.ArticleRepository.
type ArticleRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewArticleRepository creates a new article repository backed by PostgreSQL.
func NewArticleRepository(sql infra.SQLExecutor) *ArticleRepositoryPG {
	return &ArticleRepositoryPG{sql: sql}
}

// GetByID fetches a source article by its identifier.
func (r *ArticleRepositoryPG) GetByID(ctx context.Context, articleID string) (*domain.Article, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectArticle, articleID)
	var article domain.Article
	if err := row.Scan(&article.ID, &article.Title, &article.Body, &article.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

var _ domain.ArticleRepository = (*ArticleRepositoryPG)(nil)
