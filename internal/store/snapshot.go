package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo on the ent SQL builder.
type snapshotRepo struct {
	drv *entsql.Driver
}

func (r *snapshotRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.drv.Dialect())
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Name == "" {
		return fmt.Errorf("save snapshot: empty name")
	}
	data, err := json.Marshal(normalizeSnapshotData(snap.Data))
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}
	snap.Timestamp = snap.Timestamp.UTC()

	query, args := r.builder().Insert(SnapshotsTable.Name).
		Columns("name", "timestamp", "data").
		Values(snap.Name, snap.Timestamp, string(data)).
		Query()
	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, name string) (*Snapshot, error) {
	sel := r.builder().Select("id", "name", "timestamp", "data").
		From(entsql.Table(SnapshotsTable.Name))
	sel.Where(entsql.EQ(sel.C("name"), name)).
		OrderBy(entsql.Desc(sel.C("id"))).
		Limit(1)
	query, args := sel.Query()

	var (
		s   Snapshot
		raw []byte
	)
	err := r.drv.DB().QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.Timestamp, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, &s.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	s.Data = normalizeSnapshotData(s.Data)
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, name string, keep int) error {
	if keep < 1 {
		keep = 1
	}

	// Find the ID threshold: the newest snapshot beyond the keep window.
	sel := r.builder().Select("id").From(entsql.Table(SnapshotsTable.Name))
	sel.Where(entsql.EQ(sel.C("name"), name)).
		OrderBy(entsql.Desc(sel.C("id"))).
		Offset(keep).
		Limit(1)
	query, args := sel.Query()

	var threshold int
	err := r.drv.DB().QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = r.builder().Delete(SnapshotsTable.Name).
		Where(entsql.And(
			entsql.EQ("name", name),
			entsql.LTE("id", threshold),
		)).
		Query()
	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Delete(ctx context.Context, name string) error {
	query, args := r.builder().Delete(SnapshotsTable.Name).
		Where(entsql.EQ("name", name)).
		Query()
	if _, err := r.drv.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Names(ctx context.Context) ([]string, error) {
	sel := r.builder().Select("name").From(entsql.Table(SnapshotsTable.Name))
	sel.GroupBy("name").OrderBy("name")
	query, args := sel.Query()

	rows, err := r.drv.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshot names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan snapshot name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// normalizeSnapshotData replaces nil lists with empty ones so the JSON
// form always carries arrays.
func normalizeSnapshotData(d SnapshotData) SnapshotData {
	if d.Achievements == nil {
		d.Achievements = []string{}
	}
	if d.CompletedModules == nil {
		d.CompletedModules = []string{}
	}
	return d
}
