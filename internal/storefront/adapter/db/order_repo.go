package db

import (
	"context"
	"fmt"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

const orderColumns = `id, store_id, order_number, user_uuid, customer_name, total_amount, status, created_at, updated_at`

type OrderRepo struct {
	db    core.IDB
	mylog logger.Logger
}

func NewOrderRepo(db core.IDB, mylog logger.Logger) *OrderRepo {
	return &OrderRepo{
		db:    db,
		mylog: mylog,
	}
}

func scanOrder(row scanner) (models.Order, error) {
	var (
		o      models.Order
		status string
	)
	err := row.Scan(
		&o.ID,
		&o.StoreID,
		&o.OrderNumber,
		&o.UserUUID,
		&o.CustomerName,
		&o.TotalAmount,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	o.Status = models.Status(status)
	return o, err
}

// Create writes the order, its lines and the first status log entry in one
// transaction. The store row is locked so the daily sequence stays unique.
func (or *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	mylog := or.mylog.Action("create_order_tx").With("store_id", order.StoreID)

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	day := order.CreatedAt.UTC().Truncate(24 * time.Hour)

	tx, err := or.db.GetConn().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Query 1
	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM stores WHERE id = $1 FOR UPDATE`, order.StoreID).Scan(&locked)
	if err != nil {
		return mapErr(err, core.ErrStoreNotFound)
	}

	// Query 2
	var todays int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
	`, order.StoreID, day, day.Add(24*time.Hour)).Scan(&todays)
	if err != nil {
		return fmt.Errorf("failed to count today's orders: %w", err)
	}
	order.OrderNumber = models.OrderNumber(day, todays+1)

	// Query 3
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			store_id,
			order_number,
			user_uuid,
			customer_name,
			total_amount,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`,
		order.StoreID,
		order.OrderNumber,
		order.UserUUID,
		order.CustomerName,
		order.TotalAmount,
		string(order.Status),
		order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", mapErr(err, core.ErrOrderNotFound))
	}
	order.UpdatedAt = order.CreatedAt

	// Query 4
	for i := range order.Items {
		line := &order.Items[i]
		line.OrderID = order.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, item_id, item_name, quantity, price_at_time)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, order.ID, line.ItemID, line.ItemName, line.Quantity, line.PriceAtTime).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	// Query 5
	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at, note)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, string(order.Status), "customer:"+order.UserUUID, order.CreatedAt, "order placed")
	if err != nil {
		return fmt.Errorf("failed to insert order status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	mylog.Debug("order stored", "order_id", order.ID, "order_number", order.OrderNumber)
	return nil
}

func (or *OrderRepo) Get(ctx context.Context, storeID, orderID int64) (models.Order, error) {
	o, err := scanOrder(or.db.GetConn().QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE store_id = $1 AND id = $2`, storeID, orderID))
	if err != nil {
		return models.Order{}, mapErr(err, core.ErrOrderNotFound)
	}

	orders := []models.Order{o}
	if err := or.attachItems(ctx, orders); err != nil {
		return models.Order{}, err
	}
	return orders[0], nil
}

func (or *OrderRepo) ListBySession(ctx context.Context, storeID int64, sessionID string) ([]models.Order, error) {
	return or.list(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE store_id = $1 AND user_uuid = $2
		ORDER BY created_at DESC, id DESC
	`, storeID, sessionID)
}

func (or *OrderRepo) ListByStatuses(ctx context.Context, storeID int64, statuses []models.Status) ([]models.Order, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return or.list(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE store_id = $1 AND status = ANY($2)
		ORDER BY created_at ASC, id ASC
	`, storeID, names)
}

func (or *OrderRepo) list(ctx context.Context, q string, args ...any) ([]models.Order, error) {
	rows, err := or.db.GetConn().Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := or.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the lines of all orders with a single query.
func (or *OrderRepo) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	rows, err := or.db.GetConn().Query(ctx, `
		SELECT id, order_id, item_id, item_name, quantity, price_at_time
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.ItemName, &it.Quantity, &it.PriceAtTime); err != nil {
			return err
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

// UpdateStatus locks the order row, lets check veto the move and records the
// change in the status log.
func (or *OrderRepo) UpdateStatus(ctx context.Context, storeID, orderID int64, check core.StatusCheck, change core.StatusChange) (models.Status, models.Order, error) {
	mylog := or.mylog.Action("update_status_tx").With("order_id", orderID)

	tx, err := or.db.GetConn().Begin(ctx)
	if err != nil {
		return "", models.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Query 1
	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE store_id = $1 AND id = $2 FOR UPDATE`, storeID, orderID).Scan(&current)
	if err != nil {
		return "", models.Order{}, mapErr(err, core.ErrOrderNotFound)
	}
	old := models.Status(current)

	if check != nil {
		if err := check(old); err != nil {
			return old, models.Order{}, err
		}
	}

	// Query 2
	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET
			status = $3,
			customer_name = COALESCE($4, customer_name),
			updated_at = NOW()
		WHERE store_id = $1 AND id = $2
	`, storeID, orderID, string(change.Status), change.CustomerName)
	if err != nil {
		mylog.Error("failed to update order status", err)
		return old, models.Order{}, err
	}
	if tag.RowsAffected() == 0 {
		return old, models.Order{}, core.ErrOrderNotFound
	}

	// Query 3
	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, note)
		VALUES ($1, $2, $3, $4)
	`, orderID, string(change.Status), change.ChangedBy, change.Note)
	if err != nil {
		mylog.Error("fail to insert into log table", err)
		return old, models.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return old, models.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order, err := or.Get(ctx, storeID, orderID)
	if err != nil {
		return old, models.Order{}, err
	}
	return old, order, nil
}

func (or *OrderRepo) StatusLog(ctx context.Context, storeID, orderID int64) ([]models.OrderStatusLog, error) {
	var exists bool
	err := or.db.GetConn().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE store_id = $1 AND id = $2)`, storeID, orderID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, core.ErrOrderNotFound
	}

	rows, err := or.db.GetConn().Query(ctx, `
		SELECT id, order_id, status, changed_by, changed_at, note
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.OrderStatusLog{}
	for rows.Next() {
		var (
			l      models.OrderStatusLog
			status string
		)
		if err := rows.Scan(&l.ID, &l.OrderID, &status, &l.ChangedBy, &l.ChangedAt, &l.Note); err != nil {
			return nil, err
		}
		l.Status = models.Status(status)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
