package main

import (
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS factories (
	  id CHAR(36) NOT NULL,
	  name VARCHAR(255) NOT NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS orders (
	  id CHAR(36) NOT NULL,
	  order_number VARCHAR(32) NOT NULL,
	  customer_name VARCHAR(255) NOT NULL,
	  customer_email VARCHAR(255) NOT NULL,
	  customer_phone VARCHAR(32) NOT NULL,
	  address_line1 VARCHAR(255) NOT NULL,
	  address_line2 VARCHAR(255) NULL,
	  city VARCHAR(100) NOT NULL,
	  province VARCHAR(32) NOT NULL,
	  postal_code VARCHAR(16) NOT NULL,
	  wall_width_m DECIMAL(6,2) NOT NULL,
	  wall_height_m DECIMAL(6,2) NOT NULL,
	  wall_count INT NOT NULL,
	  total_sqm DECIMAL(8,2) NOT NULL,
	  image_url VARCHAR(512) NOT NULL,
	  image_urls JSON NOT NULL,
	  walls_spec JSON NULL,
	  wallpaper_style VARCHAR(32) NOT NULL,
	  application_method VARCHAR(32) NOT NULL,
	  subtotal_cents BIGINT NOT NULL,
	  shipping_cents BIGINT NOT NULL,
	  total_cents BIGINT NOT NULL,
	  status VARCHAR(32) NOT NULL,
	  stitch_payment_id VARCHAR(128) NULL,
	  assigned_factory_id CHAR(36) NULL,
	  last_activity_at DATETIME(3) NULL,
	  last_activity_preview VARCHAR(200) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  shipped_at DATETIME(3) NULL,
	  delivered_at DATETIME(3) NULL,
	  refunded_at DATETIME(3) NULL,
	  deleted_at DATETIME(3) NULL,
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_orders_order_number (order_number),
	  KEY ix_orders_status (status),
	  KEY ix_orders_customer_email (customer_email),
	  KEY ix_orders_factory (assigned_factory_id),
	  KEY ix_orders_created_at (created_at),
	  KEY ix_orders_deleted_at (deleted_at),
	  CONSTRAINT fk_orders_factory FOREIGN KEY (assigned_factory_id) REFERENCES factories(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS order_activity (
	  id CHAR(36) NOT NULL,
	  order_id CHAR(36) NOT NULL,
	  actor_id VARCHAR(64) NOT NULL,
	  action VARCHAR(32) NOT NULL,
	  old_value VARCHAR(255) NULL,
	  new_value VARCHAR(255) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_order_activity_order_id (order_id),
	  CONSTRAINT fk_order_activity_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("Tables created.")
}
