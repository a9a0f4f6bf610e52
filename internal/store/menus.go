package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Menu is a named navigation menu. Items is a JSON array of
// {label, url, children} objects managed by the admin dashboard; the
// backend stores it opaque and serves it verbatim.
type Menu struct {
	Name      string          `json:"name"`
	Items     json.RawMessage `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpsertMenu creates or replaces a menu by name.
func (s *Store) UpsertMenu(ctx context.Context, menu *Menu) error {
	menu.UpdatedAt = time.Now()
	if len(menu.Items) == 0 {
		menu.Items = json.RawMessage(`[]`)
	}

	query := `INSERT INTO menus (name, items, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query, menu.Name, []byte(menu.Items), menu.UpdatedAt)
	return err
}

// GetMenuByName retrieves a menu. Returns (nil, nil) when it does not exist.
func (s *Store) GetMenuByName(ctx context.Context, name string) (*Menu, error) {
	menu := &Menu{}
	var items []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT name, items, updated_at FROM menus WHERE name = $1`, name).Scan(
		&menu.Name, &items, &menu.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	menu.Items = json.RawMessage(items)
	return menu, nil
}

// ListMenus retrieves all menus.
func (s *Store) ListMenus(ctx context.Context) ([]*Menu, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, items, updated_at FROM menus ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*Menu
	for rows.Next() {
		menu := &Menu{}
		var items []byte
		if err := rows.Scan(&menu.Name, &items, &menu.UpdatedAt); err != nil {
			return nil, err
		}
		menu.Items = json.RawMessage(items)
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}

// DeleteMenu deletes a menu by name. Returns false if it does not exist.
func (s *Store) DeleteMenu(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM menus WHERE name = $1`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
