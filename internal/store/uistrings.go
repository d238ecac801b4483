package store

import "context"

// UIString is a translated interface label keyed by a dotted string key
// and a language code.
type UIString struct {
	ID   int64
	Key  string
	Lang string
	Val  string
}

func (q *Queries) UpsertUIString(ctx context.Context, key, lang, val string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO ui_strings (k, lang, val)
		VALUES (?, ?, ?)
		ON CONFLICT (k, lang) DO UPDATE SET val = excluded.val`,
		key, lang, val)
	return err
}

// ListUIStrings returns every interface string for a language as a lookup map.
func (q *Queries) ListUIStrings(ctx context.Context, lang string) (map[string]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT k, val FROM ui_strings WHERE lang = ?`, lang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (q *Queries) CountUIStrings(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ui_strings`).Scan(&n)
	return n, err
}
