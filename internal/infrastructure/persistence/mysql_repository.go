package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/infrastructure/metrics"
)

// SourceMySQL은 MySQL 기반 저장소의 종류 이름입니다
const SourceMySQL = "mysql"

// schemaStatements는 running configuration 테이블 정의입니다.
// attributes 컬럼은 NetworkAttributes/BondAttributes의 JSON 표현입니다.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS running_networks (
		name VARCHAR(64) NOT NULL PRIMARY KEY,
		attributes JSON NOT NULL,
		modified_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS running_bonds (
		name VARCHAR(64) NOT NULL PRIMARY KEY,
		attributes JSON NOT NULL,
		modified_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// MySQLRepository는 MySQL 기반의 RunningConfigRepository 구현체입니다
type MySQLRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewMySQLRepository는 새로운 MySQLRepository를 생성합니다
func NewMySQLRepository(db *sql.DB, logger *logrus.Logger) *MySQLRepository {
	return &MySQLRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema는 running configuration 테이블이 없으면 생성합니다
func (r *MySQLRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errors.NewSystemError("running configuration 테이블 생성 실패", err)
		}
	}
	return nil
}

// Load는 running configuration 테이블을 조회합니다
func (r *MySQLRepository) Load(ctx context.Context) (*entities.RunningSnapshot, error) {
	snapshot, err := r.load(ctx)
	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordRunningConfigLoad(SourceMySQL, status)
	return snapshot, err
}

func (r *MySQLRepository) load(ctx context.Context) (*entities.RunningSnapshot, error) {
	networks := map[string]entities.NetworkAttributes{}
	if err := r.queryAttributes(ctx, "running_networks", func(name string, raw []byte) error {
		var attrs entities.NetworkAttributes
		if err := json.Unmarshal(raw, &attrs); err != nil {
			return err
		}
		networks[name] = attrs
		return nil
	}); err != nil {
		return nil, err
	}

	bonds := map[string]entities.BondAttributes{}
	if err := r.queryAttributes(ctx, "running_bonds", func(name string, raw []byte) error {
		var attrs entities.BondAttributes
		if err := json.Unmarshal(raw, &attrs); err != nil {
			return err
		}
		bonds[name] = attrs
		return nil
	}); err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"networks": len(networks),
		"bonds":    len(bonds),
	}).Debug("running configuration 조회 완료")

	return entities.NewRunningSnapshot(networks, bonds), nil
}

// queryAttributes는 테이블의 (name, attributes) 행을 순회합니다.
// 디코딩할 수 없는 행은 스냅샷을 오염시키지 않도록 전체 조회를 실패시킵니다.
func (r *MySQLRepository) queryAttributes(ctx context.Context, table string, decode func(name string, raw []byte) error) error {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery(table, time.Since(start).Seconds())
	}()

	query := fmt.Sprintf("SELECT name, attributes FROM %s ORDER BY name", table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return errors.NewSystemError("데이터베이스 조회 실패", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var raw sql.NullString
		if err := rows.Scan(&name, &raw); err != nil {
			return errors.NewSystemError("행 스캔 실패", err)
		}
		if !raw.Valid || raw.String == "" {
			raw.String = "{}"
		}
		if err := decode(name, []byte(raw.String)); err != nil {
			return errors.NewSystemError(fmt.Sprintf("%s.%s 속성 디코딩 실패", table, name), err)
		}
	}

	if err := rows.Err(); err != nil {
		return errors.NewSystemError("결과 처리 중 오류", err)
	}
	return nil
}

// Save는 스냅샷으로 두 테이블을 한 트랜잭션 안에서 교체합니다
func (r *MySQLRepository) Save(ctx context.Context, snapshot *entities.RunningSnapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewSystemError("트랜잭션 시작 실패", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.WithError(rbErr).Error("트랜잭션 롤백 실패")
			}
		}
	}()

	networks := snapshot.Networks()
	if err = replaceRows(ctx, tx, "running_networks", sortedKeys(networks), func(name string) any { return networks[name] }); err != nil {
		return err
	}

	bonds := snapshot.Bonds()
	if err = replaceRows(ctx, tx, "running_bonds", sortedKeys(bonds), func(name string) any { return bonds[name] }); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.NewSystemError("트랜잭션 커밋 실패", err)
	}

	r.logger.WithFields(logrus.Fields{
		"networks": len(networks),
		"bonds":    len(bonds),
	}).Info("running configuration 저장 완료")
	return nil
}

func replaceRows(ctx context.Context, tx *sql.Tx, table string, names []string, attrsOf func(string) any) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return errors.NewSystemError(fmt.Sprintf("%s 삭제 실패", table), err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (name, attributes) VALUES (?, ?)", table))
	if err != nil {
		return errors.NewSystemError(fmt.Sprintf("%s 삽입 준비 실패", table), err)
	}
	defer stmt.Close()

	for _, name := range names {
		raw, err := json.Marshal(attrsOf(name))
		if err != nil {
			return errors.NewSystemError(fmt.Sprintf("%s.%s 속성 인코딩 실패", table, name), err)
		}
		if _, err := stmt.ExecContext(ctx, name, string(raw)); err != nil {
			return errors.NewSystemError(fmt.Sprintf("%s.%s 삽입 실패", table, name), err)
		}
	}
	return nil
}

// Ping은 데이터베이스 연결을 확인하고 연결 상태 메트릭을 갱신합니다
func (r *MySQLRepository) Ping(ctx context.Context) error {
	err := r.db.PingContext(ctx)
	metrics.SetDBConnectionStatus(err == nil)
	if err != nil {
		return errors.NewSystemError("데이터베이스 연결 확인 실패", err)
	}
	return nil
}

// Source는 저장소 종류를 반환합니다
func (r *MySQLRepository) Source() string {
	return SourceMySQL
}
