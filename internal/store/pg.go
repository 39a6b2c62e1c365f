package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/fold"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/store/schema"
)

// laterClaim holds when the incoming claim sits after the stored one in log order
const laterClaim = "(tips.last_claim_block IS NULL OR (EXCLUDED.last_claim_block, EXCLUDED.last_claim_log_index) > (tips.last_claim_block, tips.last_claim_log_index))"

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// UseReadReplica routes queries to the replica behind dialector; writes and
// Clauses(dbresolver.Write) queries stay on the primary.
func UseReadReplica(db *gorm.DB, replica gorm.Dialector) error {
	if err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{replica},
		Policy:   dbresolver.RandomPolicy{},
	})); err != nil {
		return fmt.Errorf("failed to register read replica: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// markProcessed records the dedup id of a record inside tx.
// It returns false when the record was already processed.
func markProcessed(tx *gorm.DB, event *domain.LedgerEvent) (bool, error) {
	processed := schema.ProcessedEvent{
		DedupID:     event.DedupID(),
		Chain:       event.Chain,
		EventType:   event.Type,
		BlockNumber: event.BlockNumber,
	}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedup_id"}},
		DoNothing: true,
	}).Create(&processed)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark event processed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ApplyObservation projects an observation record in a single transaction:
// the verbatim row, the artifact aggregate, the live view and the tip escrow
func (s *pgStore) ApplyObservation(ctx context.Context, input ApplyEventInput) (bool, error) {
	event := &input.Event
	if event.Type != domain.EventTypeObservation || event.Observation == nil {
		return false, fmt.Errorf("%w: not an observation record", domain.ErrInvalidInput)
	}
	rec := event.Observation

	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh, err := markProcessed(tx, event)
		if err != nil {
			return err
		}
		if !fresh {
			return nil
		}

		// 1. Insert the verbatim record
		observation := observationFromEvent(event, input.Raw)
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "token_id"}, {Name: "observation_id"}},
			DoNothing: true,
		}).Create(&observation)
		if result.Error != nil {
			return fmt.Errorf("failed to insert observation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Same entry already projected under another transaction hash (e.g. a replayed devnet)
			logger.WarnCtx(ctx, "Observation already projected",
				zap.String("collection", observation.Collection),
				zap.String("tokenID", observation.TokenID),
				zap.Uint64("id", observation.ObservationID),
				zap.String("txHash", event.TxHash))
			return nil
		}

		// 2. Fold the artifact aggregate
		if err := upsertArtifact(tx, &observation); err != nil {
			return err
		}

		// 3. Maintain the live view
		if !rec.Update {
			view := viewFromObservation(&observation)
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&view).Error; err != nil {
				return fmt.Errorf("failed to insert observation view: %w", err)
			}
		}
		if err := refoldArtifact(tx, observation.Collection, observation.TokenID); err != nil {
			return err
		}

		// 4. Credit the tip escrow
		if rec.Tip != nil && rec.Tip.Sign() > 0 {
			if err := creditTip(tx, rec); err != nil {
				return err
			}
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

func upsertArtifact(tx *gorm.DB, observation *schema.Observation) error {
	artifact := schema.Artifact{
		Collection: observation.Collection,
		TokenID:    observation.TokenID,
		Count:      observation.ObservationID,
		FirstBlock: observation.BlockNumber,
		LastBlock:  observation.BlockNumber,
	}

	// Records can arrive out of order across a backfill, so keep the extremes
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collection"}, {Name: "token_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":       gorm.Expr("GREATEST(artifacts.count, EXCLUDED.count)"),
			"first_block": gorm.Expr("LEAST(artifacts.first_block, EXCLUDED.first_block)"),
			"last_block":  gorm.Expr("GREATEST(artifacts.last_block, EXCLUDED.last_block)"),
			"updated_at":  gorm.Expr("now()"),
		}),
	}).Create(&artifact).Error
	if err != nil {
		return fmt.Errorf("failed to upsert artifact: %w", err)
	}

	return nil
}

// refoldArtifact rebuilds the live view of an artifact from its stored log.
// The view depends on which records are present, not on the order they were
// projected in, so an update stored before its parent applies once the parent lands.
func refoldArtifact(tx *gorm.DB, collection, tokenID string) error {
	var entries []schema.Observation
	if err := tx.Where("collection = ? AND token_id = ?", collection, tokenID).
		Order("observation_id ASC").
		Find(&entries).Error; err != nil {
		return fmt.Errorf("failed to load artifact log: %w", err)
	}

	var views []schema.ObservationView
	if err := tx.Where("collection = ? AND token_id = ?", collection, tokenID).
		Find(&views).Error; err != nil {
		return fmt.Errorf("failed to load observation views: %w", err)
	}
	current := make(map[uint64]*schema.ObservationView, len(views))
	for i := range views {
		current[views[i].ObservationID] = &views[i]
	}

	records := make([]domain.ObservationRecorded, len(entries))
	blocks := make(map[uint64]uint64, len(entries))
	for i := range entries {
		records[i] = recordFromObservation(&entries[i])
		blocks[entries[i].ObservationID] = entries[i].BlockNumber
	}

	live, resolutions := fold.Fold(records)

	for i := range entries {
		entry := &entries[i]
		if !entry.IsUpdate {
			continue
		}
		target := resolutions[entry.ObservationID].Target
		if target == entry.TargetID {
			continue
		}
		if err := tx.Model(&schema.Observation{}).
			Where("collection = ? AND token_id = ? AND observation_id = ?", collection, tokenID, entry.ObservationID).
			Update("target_id", target).Error; err != nil {
			return fmt.Errorf("failed to record update target: %w", err)
		}
	}

	for i := range live {
		entry := &live[i]
		view, ok := current[entry.ID]
		if !ok || viewMatches(view, entry) {
			continue
		}

		updates := map[string]interface{}{
			"note":          entry.Note,
			"located":       entry.Located,
			"x":             entry.X,
			"y":             entry.Y,
			"view_type":     uint8(entry.ViewType),
			"media_time":    entry.Time,
			"deleted":       entry.Deleted,
			"updated_by":    entry.UpdatedBy,
			"updated_block": nil,
			"updated_at":    gorm.Expr("now()"),
		}
		if entry.UpdatedBy != 0 {
			updates["updated_block"] = blocks[entry.UpdatedBy]
		}

		if err := tx.Model(&schema.ObservationView{}).
			Where("collection = ? AND token_id = ? AND observation_id = ?", collection, tokenID, entry.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update observation view: %w", err)
		}
	}

	return nil
}

func viewMatches(view *schema.ObservationView, entry *fold.Live) bool {
	return view.Note == entry.Note &&
		view.Located == entry.Located &&
		view.X == entry.X &&
		view.Y == entry.Y &&
		view.ViewType == uint8(entry.ViewType) &&
		view.MediaTime == entry.Time &&
		view.Deleted == entry.Deleted &&
		view.UpdatedBy == entry.UpdatedBy
}

// creditTip adds a credit to the recipient's lifetime total and recomputes its escrow
func creditTip(tx *gorm.DB, rec *domain.ObservationRecorded) error {
	recipient := rec.TipRecipient.Hex()
	amount := rec.Tip.String()

	tip := schema.Tip{
		Recipient:    recipient,
		Balance:      "0",
		TotalTipped:  amount,
		TotalClaimed: "0",
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "recipient"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_tipped": gorm.Expr("tips.total_tipped + EXCLUDED.total_tipped"),
			"updated_at":   gorm.Expr("now()"),
		}),
	}).Create(&tip).Error
	if err != nil {
		return fmt.Errorf("failed to credit tip: %w", err)
	}

	if rec.TipRecipient == rec.Collection {
		collectionTip := schema.CollectionTip{
			Collection:   recipient,
			TotalTipped:  amount,
			TotalClaimed: "0",
			Balance:      "0",
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "collection"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_tipped": gorm.Expr("collection_tips.total_tipped + EXCLUDED.total_tipped"),
				"updated_at":   gorm.Expr("now()"),
			}),
		}).Create(&collectionTip).Error
		if err != nil {
			return fmt.Errorf("failed to credit collection tip: %w", err)
		}
	}

	return refoldTip(tx, recipient)
}

// refoldTip recomputes a recipient's escrow from the credits logged after its
// latest claim. A claim projected before an earlier credit therefore never
// leaves that credit in the balance, matching the ledger whatever the arrival order.
// unclaimed_since is the time of the first of those credits.
func refoldTip(tx *gorm.DB, recipient string) error {
	err := tx.Exec(`
UPDATE tips SET
	balance = COALESCE(pending.amount, 0),
	unclaimed_since = COALESCE(pending.since, 0),
	updated_at = now()
FROM (
	SELECT SUM(o.tip) AS amount, MIN(EXTRACT(EPOCH FROM o.timestamp))::bigint AS since
	FROM observations o
	JOIN tips t ON t.recipient = o.tip_recipient
	WHERE t.recipient = ? AND o.tip > 0
	  AND (t.last_claim_block IS NULL
	       OR (o.block_number, o.log_index) > (t.last_claim_block, t.last_claim_log_index))
) AS pending
WHERE tips.recipient = ?`, recipient, recipient).Error
	if err != nil {
		return fmt.Errorf("failed to recompute tip balance: %w", err)
	}

	err = tx.Exec(`
UPDATE collection_tips SET balance = tips.balance, updated_at = now()
FROM tips
WHERE tips.recipient = collection_tips.collection AND collection_tips.collection = ?`, recipient).Error
	if err != nil {
		return fmt.Errorf("failed to recompute collection tip balance: %w", err)
	}

	return nil
}

// ApplyTipsClaimed projects a claim record: the recipient's escrow is emptied
func (s *pgStore) ApplyTipsClaimed(ctx context.Context, input ApplyEventInput) (bool, error) {
	event := &input.Event
	if event.Type != domain.EventTypeTipsClaimed || event.TipsClaimed == nil {
		return false, fmt.Errorf("%w: not a tips_claimed record", domain.ErrInvalidInput)
	}
	claim := event.TipsClaimed
	recipient := claim.Recipient.Hex()
	claimant := claim.Claimant.Hex()
	amount := claim.Amount.String()

	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh, err := markProcessed(tx, event)
		if err != nil {
			return err
		}
		if !fresh {
			return nil
		}

		// A claim pays out every credit logged before it; the latest claim by
		// log position marks where the escrow restarts
		block := event.BlockNumber
		logIndex := event.LogIndex
		tip := schema.Tip{
			Recipient:         recipient,
			Balance:           "0",
			TotalTipped:       "0",
			TotalClaimed:      amount,
			LastClaimant:      &claimant,
			LastClaimBlock:    &block,
			LastClaimLogIndex: &logIndex,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "recipient"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_claimed":        gorm.Expr("tips.total_claimed + EXCLUDED.total_claimed"),
				"last_claimant":        gorm.Expr("CASE WHEN " + laterClaim + " THEN EXCLUDED.last_claimant ELSE tips.last_claimant END"),
				"last_claim_block":     gorm.Expr("CASE WHEN " + laterClaim + " THEN EXCLUDED.last_claim_block ELSE tips.last_claim_block END"),
				"last_claim_log_index": gorm.Expr("CASE WHEN " + laterClaim + " THEN EXCLUDED.last_claim_log_index ELSE tips.last_claim_log_index END"),
				"updated_at":           gorm.Expr("now()"),
			}),
		}).Create(&tip).Error
		if err != nil {
			return fmt.Errorf("failed to apply claim: %w", err)
		}

		err = tx.Model(&schema.CollectionTip{}).
			Where("collection = ?", recipient).
			Updates(map[string]interface{}{
				"total_claimed": gorm.Expr("collection_tips.total_claimed + ?", amount),
				"updated_at":    gorm.Expr("now()"),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to apply collection claim: %w", err)
		}

		if err := refoldTip(tx, recipient); err != nil {
			return err
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

// GetArtifact retrieves the aggregate of an artifact
func (s *pgStore) GetArtifact(ctx context.Context, collection, tokenID string) (*schema.Artifact, error) {
	var artifact schema.Artifact

	query := func(db *gorm.DB) error {
		return db.WithContext(ctx).
			Where("collection = ? AND token_id = ?", collection, tokenID).
			First(&artifact).Error
	}

	err := query(s.db)
	if err == nil {
		return &artifact, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	if !hasDBResolver(s.db) {
		return nil, nil
	}

	// Replica can lag behind primary; retry on primary before returning nil.
	err = query(s.db.Clauses(dbresolver.Write))
	if err == nil {
		return &artifact, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("failed to get artifact: %w", err)
}

// GetArtifactObservations retrieves the visible live entries of an artifact
func (s *pgStore) GetArtifactObservations(ctx context.Context, collection, tokenID string) ([]schema.ObservationView, error) {
	var views []schema.ObservationView
	err := s.db.WithContext(ctx).
		Where("collection = ? AND token_id = ? AND NOT deleted", collection, tokenID).
		Order("block_number ASC, observation_id ASC").
		Limit(MaxArtifactObservations).
		Find(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact observations: %w", err)
	}
	return views, nil
}

// GetRawObservations retrieves the verbatim log of an artifact
func (s *pgStore) GetRawObservations(ctx context.Context, collection, tokenID string) ([]schema.Observation, error) {
	var observations []schema.Observation
	err := s.db.WithContext(ctx).
		Where("collection = ? AND token_id = ?", collection, tokenID).
		Order("observation_id ASC").
		Find(&observations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get raw observations: %w", err)
	}
	return observations, nil
}

func clampLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}

// GetRecentObservations retrieves the latest visible live entries across all artifacts
func (s *pgStore) GetRecentObservations(ctx context.Context, limit int) ([]schema.ObservationView, error) {
	var views []schema.ObservationView
	err := s.db.WithContext(ctx).
		Where("NOT deleted").
		Order("block_number DESC, collection DESC, token_id DESC, observation_id DESC").
		Limit(clampLimit(limit, MaxRecentObservations)).
		Find(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent observations: %w", err)
	}
	return views, nil
}

// GetCollectionArtifacts retrieves the artifacts of a collection, most observed first
func (s *pgStore) GetCollectionArtifacts(ctx context.Context, collection string, limit int, offset uint64) ([]schema.Artifact, uint64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&schema.Artifact{}).
		Where("collection = ?", collection).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count collection artifacts: %w", err)
	}

	var artifacts []schema.Artifact
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("count DESC, token_id ASC").
		Limit(clampLimit(limit, MaxPageSize)).
		Offset(int(offset)). //nolint:gosec,G115
		Find(&artifacts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get collection artifacts: %w", err)
	}

	return artifacts, uint64(total), nil //nolint:gosec,G115
}

// GetCollectionObservations retrieves the latest visible live entries of a collection
func (s *pgStore) GetCollectionObservations(ctx context.Context, collection string, limit int) ([]schema.ObservationView, error) {
	var views []schema.ObservationView
	err := s.db.WithContext(ctx).
		Where("collection = ? AND NOT deleted", collection).
		Order("block_number DESC, token_id DESC, observation_id DESC").
		Limit(clampLimit(limit, MaxRecentObservations)).
		Find(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get collection observations: %w", err)
	}
	return views, nil
}

// GetObserverObservations retrieves one page of an observer's visible live entries, newest first
func (s *pgStore) GetObserverObservations(ctx context.Context, filter ObserverObservationsFilter) (*ObservationPage, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = clampLimit(limit, MaxPageSize)

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&schema.ObservationView{}).
			Where("observer = ? AND NOT deleted", filter.Observer)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count observer observations: %w", err)
	}

	query := base()
	if filter.After != "" {
		cursor, err := DecodeCursor(filter.After)
		if err != nil {
			return nil, err
		}
		query = query.Where("(block_number, collection, token_id, observation_id) < (?, ?, ?::numeric, ?)",
			cursor.BlockNumber, cursor.Collection, cursor.TokenID, cursor.ObservationID)
	}

	var views []schema.ObservationView
	err := query.
		Order("block_number DESC, collection DESC, token_id DESC, observation_id DESC").
		Limit(limit + 1).
		Find(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get observer observations: %w", err)
	}

	page := &ObservationPage{
		TotalCount: uint64(total), //nolint:gosec,G115
	}
	if len(views) > limit {
		page.HasNextPage = true
		views = views[:limit]
	}
	page.Observations = views
	if len(views) > 0 {
		page.EndCursor = CursorOf(&views[len(views)-1]).Encode()
	}

	return page, nil
}

// GetTip retrieves the escrow projection of a recipient
func (s *pgStore) GetTip(ctx context.Context, recipient string) (*schema.Tip, error) {
	var tip schema.Tip
	err := s.db.WithContext(ctx).Where("recipient = ?", recipient).First(&tip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tip: %w", err)
	}
	return &tip, nil
}

// GetCollectionTip retrieves the tips addressed to a collection contract
func (s *pgStore) GetCollectionTip(ctx context.Context, collection string) (*schema.CollectionTip, error) {
	var tip schema.CollectionTip
	err := s.db.WithContext(ctx).Where("collection = ?", collection).First(&tip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection tip: %w", err)
	}
	return &tip, nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	value, err := s.GetKeyValue(ctx, fmt.Sprintf("block_cursor:%s", chain))
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if value == "" {
		return 0, nil // Return 0 if no cursor exists
	}

	blockNumber, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	err := s.SetKeyValue(ctx, fmt.Sprintf("block_cursor:%s", chain), strconv.FormatUint(blockNumber, 10))
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}
	return nil
}

// SetKeyValue stores a key-value pair
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// GetKeyValue retrieves a value by key from the key-value store
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}

func observationFromEvent(event *domain.LedgerEvent, raw []byte) schema.Observation {
	rec := event.Observation
	tip := "0"
	if rec.Tip != nil {
		tip = rec.Tip.String()
	}

	return schema.Observation{
		Collection:    rec.Collection.Hex(),
		TokenID:       rec.TokenID.String(),
		ObservationID: rec.ID,
		Observer:      rec.Observer.Hex(),
		Parent:        rec.Parent,
		IsUpdate:      rec.Update,
		Note:          rec.Note,
		Located:       rec.Located,
		X:             rec.X,
		Y:             rec.Y,
		ViewType:      rec.ViewType,
		MediaTime:     rec.Time,
		Tip:           tip,
		TipRecipient:  rec.TipRecipient.Hex(),
		Chain:         event.Chain,
		TxHash:        event.TxHash,
		BlockNumber:   event.BlockNumber,
		BlockHash:     event.BlockHash,
		LogIndex:      event.LogIndex,
		Timestamp:     event.Timestamp.UTC(),
		Raw:           datatypes.JSON(raw),
	}
}

// recordFromObservation restores the fields of a stored record the fold reads
func recordFromObservation(o *schema.Observation) domain.ObservationRecorded {
	tokenID, _ := new(big.Int).SetString(o.TokenID, 10)
	tip, ok := new(big.Int).SetString(o.Tip, 10)
	if !ok {
		tip = new(big.Int)
	}

	return domain.ObservationRecorded{
		Collection:   common.HexToAddress(o.Collection),
		TokenID:      tokenID,
		Observer:     common.HexToAddress(o.Observer),
		ID:           o.ObservationID,
		Parent:       o.Parent,
		Update:       o.IsUpdate,
		Note:         o.Note,
		Located:      o.Located,
		X:            o.X,
		Y:            o.Y,
		ViewType:     o.ViewType,
		Time:         o.MediaTime,
		Tip:          tip,
		TipRecipient: common.HexToAddress(o.TipRecipient),
	}
}

func viewFromObservation(o *schema.Observation) schema.ObservationView {
	return schema.ObservationView{
		Collection:    o.Collection,
		TokenID:       o.TokenID,
		ObservationID: o.ObservationID,
		Observer:      o.Observer,
		Parent:        o.Parent,
		Note:          o.Note,
		Located:       o.Located,
		X:             o.X,
		Y:             o.Y,
		ViewType:      uint8(o.ViewType),
		MediaTime:     o.MediaTime,
		Tip:           o.Tip,
		TipRecipient:  o.TipRecipient,
		BlockNumber:   o.BlockNumber,
		TxHash:        o.TxHash,
		Timestamp:     o.Timestamp,
	}
}
