package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Tenant     TenantRepository
	Employee   EmployeeRepository
	Course     CourseRepository
	Assignment AssignmentRepository
	Instance   InstanceRepository
	Completion CompletionRepository
	Supervisor SupervisorRepository
	Lookup     LookupRepository
	Setting    SettingRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Tenant:     NewTenantRepo(db),
		Employee:   NewEmployeeRepo(db),
		Course:     NewCourseRepo(db),
		Assignment: NewAssignmentRepo(db),
		Instance:   NewInstanceRepo(db),
		Completion: NewCompletionRepo(db),
		Supervisor: NewSupervisorRepo(db),
		Lookup:     NewLookupRepo(db),
		Setting:    NewSettingRepo(db),
	}
}

// Transaction 在单个数据库事务中执行 fn
// fn 内通过 txRepo 进行的全部写入要么整体提交要么整体回滚
// 无底层连接时（单测 mock 场景）直接执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
