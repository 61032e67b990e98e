package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/schema"
)

const (
	fieldID       = "id"
	fieldContent  = "content"
	fieldMetadata = "metadata"
	fieldVector   = "vector"

	maxContentLength = 65535
)

// MilvusStore persists documents in a Milvus collection. The collection
// and its HNSW index are created on first use.
type MilvusStore struct {
	cli        client.Client
	collection string
	metric     string
	dim        int
}

// NewMilvusStore connects to Milvus and ensures the configured
// collection exists and is loaded.
func NewMilvusStore(ctx context.Context, cfg config.VectorDBConfig, dim int) (*MilvusStore, error) {
	cli, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus %s: %w", cfg.Address, err)
	}

	s := &MilvusStore{
		cli:        cli,
		collection: cfg.Collection,
		metric:     cfg.Metric,
		dim:        dim,
	}
	if s.metric == "" {
		s.metric = schema.MetricCosine
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MilvusStore) GetProviderType() string {
	return "milvus"
}

func (s *MilvusStore) milvusMetric() entity.MetricType {
	if s.metric == schema.MetricL2 {
		return entity.L2
	}
	return entity.COSINE
}

func (s *MilvusStore) ensureCollection(ctx context.Context) error {
	has, err := s.cli.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", s.collection, err)
	}
	if !has {
		sch := entity.NewSchema().WithName(s.collection).
			WithField(entity.NewField().WithName(fieldID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(64).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(fieldContent).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxContentLength)).
			WithField(entity.NewField().WithName(fieldMetadata).WithDataType(entity.FieldTypeJSON)).
			WithField(entity.NewField().WithName(fieldVector).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim)))
		if err := s.cli.CreateCollection(ctx, sch, 1); err != nil {
			return fmt.Errorf("create collection %s: %w", s.collection, err)
		}
		index, err := entity.NewIndexHNSW(s.milvusMetric(), 8, 200)
		if err != nil {
			return fmt.Errorf("build hnsw index: %w", err)
		}
		if err := s.cli.CreateIndex(ctx, s.collection, fieldVector, index, false); err != nil {
			return fmt.Errorf("create index on %s: %w", s.collection, err)
		}
		logger.Infof("created milvus collection %s, dim: %d, metric: %s", s.collection, s.dim, s.metric)
	}
	if err := s.cli.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("load collection %s: %w", s.collection, err)
	}
	return nil
}

func (s *MilvusStore) AddDoc(ctx context.Context, docs []schema.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(docs))
	contents := make([]string, 0, len(docs))
	metas := make([][]byte, 0, len(docs))
	vectors := make([][]float32, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("add doc: missing id")
		}
		if len(doc.Vector) != s.dim {
			return fmt.Errorf("add doc %s: expected %d dimensions, got %d", doc.ID, s.dim, len(doc.Vector))
		}
		meta := doc.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", doc.ID, err)
		}
		ids = append(ids, doc.ID)
		contents = append(contents, doc.Content)
		metas = append(metas, raw)
		vectors = append(vectors, doc.Vector)
	}

	_, err := s.cli.Upsert(ctx, s.collection, "",
		entity.NewColumnVarChar(fieldID, ids),
		entity.NewColumnVarChar(fieldContent, contents),
		entity.NewColumnJSONBytes(fieldMetadata, metas),
		entity.NewColumnFloatVector(fieldVector, s.dim, vectors),
	)
	if err != nil {
		return fmt.Errorf("upsert %d docs into %s: %w", len(docs), s.collection, err)
	}
	return nil
}

func (s *MilvusStore) SearchDocs(ctx context.Context, vector []float32, options *schema.SearchOptions) ([]schema.SearchResult, error) {
	topK := defaultSearchTopK
	threshold := 0.0
	if options != nil {
		if options.TopK > 0 {
			topK = options.TopK
		}
		threshold = options.Threshold
	}

	sp, err := entity.NewIndexHNSWSearchParam(74)
	if err != nil {
		return nil, fmt.Errorf("build search param: %w", err)
	}
	searchResults, err := s.cli.Search(ctx, s.collection, nil, "",
		[]string{fieldID, fieldContent, fieldMetadata},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldVector, s.milvusMetric(), topK, sp)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.collection, err)
	}

	var results []schema.SearchResult
	for _, rs := range searchResults {
		idCol, ok := rs.IDs.(*entity.ColumnVarChar)
		if !ok {
			return nil, fmt.Errorf("search %s: unexpected id column type", s.collection)
		}
		contentCol, _ := rs.Fields.GetColumn(fieldContent).(*entity.ColumnVarChar)
		metaCol, _ := rs.Fields.GetColumn(fieldMetadata).(*entity.ColumnJSONBytes)

		for i := 0; i < rs.ResultCount; i++ {
			id, err := idCol.ValueByIdx(i)
			if err != nil {
				return nil, fmt.Errorf("search %s: read id: %w", s.collection, err)
			}
			doc := schema.Document{ID: id}
			if contentCol != nil {
				doc.Content, _ = contentCol.ValueByIdx(i)
			}
			if metaCol != nil {
				if raw, err := metaCol.ValueByIdx(i); err == nil && len(raw) > 0 {
					_ = json.Unmarshal(raw, &doc.Metadata)
				}
			}

			score := s.similarityFromScore(rs.Scores[i])
			if threshold > 0 && score < threshold {
				continue
			}
			results = append(results, schema.SearchResult{Document: doc, Score: score})
		}
	}
	return results, nil
}

// similarityFromScore converts raw Milvus scores to higher-is-better.
// COSINE already is a similarity; L2 returns squared distance.
func (s *MilvusStore) similarityFromScore(raw float32) float64 {
	if s.metric == schema.MetricL2 {
		return 1 / (1 + math.Sqrt(float64(raw)))
	}
	return float64(raw)
}

func (s *MilvusStore) DeleteDocs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.cli.DeleteByPks(ctx, s.collection, "", entity.NewColumnVarChar(fieldID, ids)); err != nil {
		return fmt.Errorf("delete %d docs from %s: %w", len(ids), s.collection, err)
	}
	return nil
}

func (s *MilvusStore) ListDocs(ctx context.Context, limit int) ([]schema.Document, error) {
	if limit <= 0 {
		limit = defaultSearchTopK
	}
	rs, err := s.cli.Query(ctx, s.collection, nil, fmt.Sprintf(`%s != ""`, fieldID),
		[]string{fieldID, fieldContent, fieldMetadata}, client.WithLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.collection, err)
	}

	var idCol, contentCol *entity.ColumnVarChar
	var metaCol *entity.ColumnJSONBytes
	for _, col := range rs {
		switch col.Name() {
		case fieldID:
			idCol, _ = col.(*entity.ColumnVarChar)
		case fieldContent:
			contentCol, _ = col.(*entity.ColumnVarChar)
		case fieldMetadata:
			metaCol, _ = col.(*entity.ColumnJSONBytes)
		}
	}
	if idCol == nil {
		return nil, nil
	}

	docs := make([]schema.Document, 0, idCol.Len())
	for i := 0; i < idCol.Len(); i++ {
		id, err := idCol.ValueByIdx(i)
		if err != nil {
			return nil, fmt.Errorf("query %s: read id: %w", s.collection, err)
		}
		doc := schema.Document{ID: id}
		if contentCol != nil {
			doc.Content, _ = contentCol.ValueByIdx(i)
		}
		if metaCol != nil {
			if raw, err := metaCol.ValueByIdx(i); err == nil && len(raw) > 0 {
				_ = json.Unmarshal(raw, &doc.Metadata)
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
