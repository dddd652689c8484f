package pos

import (
	"database/sql"
	"fmt"
)

// Repository is the persistence contract for the POS/finance subsystem.
type Repository interface {
	CreateShop(shop *Shop) error
	FindShopByID(id uint) (*Shop, error)
	FindAllShops() ([]Shop, error)
	UpdateShop(shop *Shop) error
	DeleteShop(id uint) error

	CreateStore(store *Store) error
	FindStoreByID(id uint) (*Store, error)
	FindStoresByShop(shopID uint) ([]Store, error)
	UpdateStore(store *Store) error
	DeleteStore(id uint) error

	CreateSale(sale *Sale) error
	FindSaleByID(id uint) (*Sale, error)
	FindSales(status string, shopID uint, limit, offset int) ([]Sale, int, error)
	// PendingQuantity sums the quantities of a product held by Pending
	// sales at a shop.
	PendingQuantity(productID, shopID uint) (int, error)
	// CompleteSale flips a Pending sale to Completed and records the
	// ledger transaction in the same SQL transaction. Returns
	// sql.ErrNoRows when the sale is not Pending.
	CompleteSale(id uint, txn *Transaction) error
	// VoidSale flips a Pending sale to Voided, releasing its
	// reservation. Returns sql.ErrNoRows when the sale is not Pending.
	VoidSale(id uint) error

	CreateInvoice(invoice *Invoice) error
	FindInvoiceByID(id uint) (*Invoice, error)
	FindInvoiceBySale(saleID uint) (*Invoice, error)
	UpdateInvoice(invoice *Invoice) error

	CreateSalaryPayment(payment *SalaryPayment, txn *Transaction) error
	FindSalaryPayments(limit, offset int) ([]SalaryPayment, error)

	FindTransactions(txType string, limit, offset int) ([]Transaction, int, error)
}

// PostgresRepository implements Repository over database/sql.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new POS repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InitSchema creates the POS tables if they don't exist
func (r *PostgresRepository) InitSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pos_shops (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			location_id INTEGER NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS pos_stores (
			id SERIAL PRIMARY KEY,
			shop_id INTEGER NOT NULL REFERENCES pos_shops(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS pos_sales (
			id SERIAL PRIMARY KEY,
			reference VARCHAR(32) UNIQUE NOT NULL,
			shop_id INTEGER NOT NULL,
			cashier_id INTEGER NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Pending',
			total_amount NUMERIC(12,2) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS pos_sale_lines (
			id SERIAL PRIMARY KEY,
			sale_id INTEGER NOT NULL REFERENCES pos_sales(id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL,
			line_total NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pos_transactions (
			id SERIAL PRIMARY KEY,
			type VARCHAR(20) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			reference VARCHAR(64) NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS pos_invoices (
			id SERIAL PRIMARY KEY,
			invoice_number VARCHAR(32) UNIQUE NOT NULL,
			sale_id INTEGER UNIQUE NOT NULL REFERENCES pos_sales(id),
			amount_due NUMERIC(12,2) NOT NULL,
			amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
			issued_at TIMESTAMP NOT NULL DEFAULT NOW(),
			paid_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS pos_salary_payments (
			id SERIAL PRIMARY KEY,
			staff_id INTEGER NOT NULL,
			period VARCHAR(20) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			paid_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pos_sales_shop_status ON pos_sales(shop_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_pos_sale_lines_product ON pos_sale_lines(product_id)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) CreateShop(shop *Shop) error {
	query := `
		INSERT INTO pos_shops (name, address, location_id, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query, shop.Name, shop.Address, shop.LocationID, shop.IsActive).
		Scan(&shop.ID, &shop.CreatedAt, &shop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindShopByID(id uint) (*Shop, error) {
	shop := &Shop{}
	query := `
		SELECT id, name, address, location_id, is_active, created_at, updated_at
		FROM pos_shops
		WHERE id = $1
	`
	err := r.db.QueryRow(query, id).Scan(
		&shop.ID, &shop.Name, &shop.Address, &shop.LocationID,
		&shop.IsActive, &shop.CreatedAt, &shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func (r *PostgresRepository) FindAllShops() ([]Shop, error) {
	query := `
		SELECT id, name, address, location_id, is_active, created_at, updated_at
		FROM pos_shops
		ORDER BY name
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to find shops: %w", err)
	}
	defer rows.Close()

	shops := []Shop{}
	for rows.Next() {
		shop := Shop{}
		if err := rows.Scan(
			&shop.ID, &shop.Name, &shop.Address, &shop.LocationID,
			&shop.IsActive, &shop.CreatedAt, &shop.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

func (r *PostgresRepository) UpdateShop(shop *Shop) error {
	query := `
		UPDATE pos_shops
		SET name = $1, address = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.db.Exec(query, shop.Name, shop.Address, shop.IsActive, shop.ID)
	if err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresRepository) DeleteShop(id uint) error {
	result, err := r.db.Exec(`DELETE FROM pos_shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresRepository) CreateStore(store *Store) error {
	query := `
		INSERT INTO pos_stores (shop_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query, store.ShopID, store.Name, store.Description).
		Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindStoreByID(id uint) (*Store, error) {
	store := &Store{}
	query := `
		SELECT id, shop_id, name, description, created_at, updated_at
		FROM pos_stores
		WHERE id = $1
	`
	err := r.db.QueryRow(query, id).Scan(
		&store.ID, &store.ShopID, &store.Name, &store.Description,
		&store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (r *PostgresRepository) FindStoresByShop(shopID uint) ([]Store, error) {
	query := `
		SELECT id, shop_id, name, description, created_at, updated_at
		FROM pos_stores
		WHERE shop_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(query, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to find stores: %w", err)
	}
	defer rows.Close()

	stores := []Store{}
	for rows.Next() {
		store := Store{}
		if err := rows.Scan(
			&store.ID, &store.ShopID, &store.Name, &store.Description,
			&store.CreatedAt, &store.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func (r *PostgresRepository) UpdateStore(store *Store) error {
	query := `
		UPDATE pos_stores
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.db.Exec(query, store.Name, store.Description, store.ID)
	if err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresRepository) DeleteStore(id uint) error {
	result, err := r.db.Exec(`DELETE FROM pos_stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresRepository) CreateSale(sale *Sale) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO pos_sales (reference, shop_id, cashier_id, status, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(query, sale.Reference, sale.ShopID, sale.CashierID, sale.Status, sale.TotalAmount).
		Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	lineQuery := `
		INSERT INTO pos_sale_lines (sale_id, product_id, item_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for i := range sale.Lines {
		line := &sale.Lines[i]
		line.SaleID = sale.ID
		err = tx.QueryRow(lineQuery, sale.ID, line.ProductID, line.ItemID, line.Quantity, line.UnitPrice, line.LineTotal).
			Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("failed to create sale line: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) FindSaleByID(id uint) (*Sale, error) {
	sale := &Sale{}
	query := `
		SELECT id, reference, shop_id, cashier_id, status, total_amount, created_at, updated_at
		FROM pos_sales
		WHERE id = $1
	`
	err := r.db.QueryRow(query, id).Scan(
		&sale.ID, &sale.Reference, &sale.ShopID, &sale.CashierID,
		&sale.Status, &sale.TotalAmount, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lines, err := r.findSaleLines(sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return sale, nil
}

func (r *PostgresRepository) findSaleLines(saleID uint) ([]SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, item_id, quantity, unit_price, line_total
		FROM pos_sale_lines
		WHERE sale_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sale lines: %w", err)
	}
	defer rows.Close()

	lines := []SaleLine{}
	for rows.Next() {
		line := SaleLine{}
		if err := rows.Scan(
			&line.ID, &line.SaleID, &line.ProductID, &line.ItemID,
			&line.Quantity, &line.UnitPrice, &line.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) FindSales(status string, shopID uint, limit, offset int) ([]Sale, int, error) {
	where := `WHERE ($1 = '' OR status = $1) AND ($2 = 0 OR shop_id = $2)`

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM pos_sales `+where, status, shopID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	query := `
		SELECT id, reference, shop_id, cashier_id, status, total_amount, created_at, updated_at
		FROM pos_sales ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(query, status, shopID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find sales: %w", err)
	}
	defer rows.Close()

	sales := []Sale{}
	for rows.Next() {
		sale := Sale{}
		if err := rows.Scan(
			&sale.ID, &sale.Reference, &sale.ShopID, &sale.CashierID,
			&sale.Status, &sale.TotalAmount, &sale.CreatedAt, &sale.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	return sales, total, rows.Err()
}

func (r *PostgresRepository) PendingQuantity(productID, shopID uint) (int, error) {
	var quantity int
	query := `
		SELECT COALESCE(SUM(l.quantity), 0)
		FROM pos_sale_lines l
		JOIN pos_sales s ON s.id = l.sale_id
		WHERE l.product_id = $1 AND s.shop_id = $2 AND s.status = 'Pending'
	`
	if err := r.db.QueryRow(query, productID, shopID).Scan(&quantity); err != nil {
		return 0, fmt.Errorf("failed to sum pending quantity: %w", err)
	}
	return quantity, nil
}

func (r *PostgresRepository) CompleteSale(id uint, txn *Transaction) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE pos_sales SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		SaleStatusCompleted, id, SaleStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to complete sale: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	err = tx.QueryRow(
		`INSERT INTO pos_transactions (type, amount, reference, notes) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		txn.Type, txn.Amount, txn.Reference, txn.Notes,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresRepository) VoidSale(id uint) error {
	result, err := r.db.Exec(
		`UPDATE pos_sales SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		SaleStatusVoided, id, SaleStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to void sale: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresRepository) CreateInvoice(invoice *Invoice) error {
	query := `
		INSERT INTO pos_invoices (invoice_number, sale_id, amount_due, amount_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, issued_at
	`
	err := r.db.QueryRow(query, invoice.InvoiceNumber, invoice.SaleID, invoice.AmountDue, invoice.AmountPaid).
		Scan(&invoice.ID, &invoice.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindInvoiceByID(id uint) (*Invoice, error) {
	return r.findInvoice(`id = $1`, id)
}

func (r *PostgresRepository) FindInvoiceBySale(saleID uint) (*Invoice, error) {
	return r.findInvoice(`sale_id = $1`, saleID)
}

func (r *PostgresRepository) findInvoice(cond string, arg interface{}) (*Invoice, error) {
	invoice := &Invoice{}
	query := `
		SELECT id, invoice_number, sale_id, amount_due, amount_paid, issued_at, paid_at
		FROM pos_invoices
		WHERE ` + cond
	err := r.db.QueryRow(query, arg).Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.SaleID,
		&invoice.AmountDue, &invoice.AmountPaid, &invoice.IssuedAt, &invoice.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *PostgresRepository) UpdateInvoice(invoice *Invoice) error {
	query := `
		UPDATE pos_invoices
		SET amount_paid = $1, paid_at = $2
		WHERE id = $3
	`
	result, err := r.db.Exec(query, invoice.AmountPaid, invoice.PaidAt, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresRepository) CreateSalaryPayment(payment *SalaryPayment, txn *Transaction) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO pos_salary_payments (staff_id, period, amount, paid_at) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		payment.StaffID, payment.Period, payment.Amount, payment.PaidAt,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create salary payment: %w", err)
	}

	err = tx.QueryRow(
		`INSERT INTO pos_transactions (type, amount, reference, notes) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		txn.Type, txn.Amount, txn.Reference, txn.Notes,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresRepository) FindSalaryPayments(limit, offset int) ([]SalaryPayment, error) {
	query := `
		SELECT id, staff_id, period, amount, paid_at, created_at
		FROM pos_salary_payments
		ORDER BY paid_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find salary payments: %w", err)
	}
	defer rows.Close()

	payments := []SalaryPayment{}
	for rows.Next() {
		payment := SalaryPayment{}
		if err := rows.Scan(
			&payment.ID, &payment.StaffID, &payment.Period,
			&payment.Amount, &payment.PaidAt, &payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *PostgresRepository) FindTransactions(txType string, limit, offset int) ([]Transaction, int, error) {
	where := `WHERE ($1 = '' OR type = $1)`

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM pos_transactions `+where, txType).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT id, type, amount, reference, notes, created_at
		FROM pos_transactions ` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(query, txType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find transactions: %w", err)
	}
	defer rows.Close()

	transactions := []Transaction{}
	for rows.Next() {
		txn := Transaction{}
		if err := rows.Scan(
			&txn.ID, &txn.Type, &txn.Amount, &txn.Reference, &txn.Notes, &txn.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	return transactions, total, rows.Err()
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
