package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toolbox-track/internal/model"
	"toolbox-track/internal/repository"
)

// ════════════════════════════════════════════════════════════════════
// 内存版 Repository mock（单测用，无数据库）
// Repository.db 为 nil，Transaction 直接执行 fn
// ════════════════════════════════════════════════════════════════════

func newTestRepo() *repository.Repository {
	completions := &mockCompletionRepo{records: map[string]*model.CompletionRecord{}}
	assignments := &mockAssignmentRepo{assignments: map[string]*model.CourseAssignment{}}
	return &repository.Repository{
		Tenant:     &mockTenantRepo{tenants: map[string]*model.Tenant{}},
		Employee:   &mockEmployeeRepo{employees: map[string]*model.Employee{}},
		Course:     &mockCourseRepo{courses: map[string]*model.Course{}},
		Assignment: assignments,
		Instance:   &mockInstanceRepo{instances: map[string]*model.ScheduledTalkInstance{}, completions: completions, assignments: assignments},
		Completion: completions,
		Supervisor: &mockSupervisorRepo{assignments: map[string]*model.SupervisorAssignment{}},
		Lookup: &mockLookupRepo{
			categories: map[string]*model.LookupCategory{},
			values:     map[string]*model.LookupValue{},
			overrides:  map[string]*model.TenantLookupOverride{},
		},
		Setting: &mockSettingRepo{settings: map[string]*model.TenantSetting{}},
	}
}

// ── Tenant ──

type mockTenantRepo struct {
	tenants map[string]*model.Tenant
}

func (m *mockTenantRepo) Create(_ context.Context, tenant *model.Tenant) error {
	if tenant.TenantID == "" {
		tenant.TenantID = uuid.New().String()
	}
	m.tenants[tenant.TenantID] = tenant
	return nil
}

func (m *mockTenantRepo) GetByID(_ context.Context, id string) (*model.Tenant, error) {
	if t, ok := m.tenants[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTenantRepo) GetBySlug(_ context.Context, slug string) (*model.Tenant, error) {
	for _, t := range m.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTenantRepo) List(_ context.Context) ([]model.Tenant, error) {
	var out []model.Tenant
	for _, t := range m.tenants {
		out = append(out, *t)
	}
	return out, nil
}

// ── Employee ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.EmployeeID == "" {
		employee.EmployeeID = uuid.New().String()
	}
	if employee.Version == 0 {
		employee.Version = 1
	}
	m.employees[employee.EmployeeID] = employee
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, tenantID, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok && e.TenantID == tenantID {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, tenantID, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.TenantID == tenantID && e.Email == email {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, tenantID string, offset, limit int) ([]model.Employee, int64, error) {
	all, _ := m.ListActive(context.Background(), tenantID)
	return all, int64(len(all)), nil
}

func (m *mockEmployeeRepo) ListActive(_ context.Context, tenantID string) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range m.employees {
		if e.TenantID == tenantID && e.IsActive {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	m.employees[employee.EmployeeID] = employee
	employee.Version++
	return nil
}

// ── Course ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = uuid.New().String()
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, tenantID, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, tenantID string, includeInactive bool) ([]model.Course, error) {
	var out []model.Course
	for _, c := range m.courses {
		if c.TenantID == tenantID && (includeInactive || c.IsActive) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	course.Version++
	return nil
}

// ── Assignment ──

type mockAssignmentRepo struct {
	assignments map[string]*model.CourseAssignment
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.CourseAssignment) error {
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = uuid.New().String()
	}
	if assignment.Version == 0 {
		assignment.Version = 1
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, tenantID, id string) (*model.CourseAssignment, error) {
	if a, ok := m.assignments[id]; ok && a.TenantID == tenantID {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) List(_ context.Context, tenantID string, filter repository.AssignmentFilter, offset, limit int) ([]model.CourseAssignment, int64, error) {
	var out []model.CourseAssignment
	for _, a := range m.assignments {
		if a.TenantID != tenantID {
			continue
		}
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.CourseID != "" && a.CourseID != filter.CourseID {
			continue
		}
		if filter.ActiveOnly && !a.Active {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (m *mockAssignmentRepo) ListActive(_ context.Context, tenantID string) ([]model.CourseAssignment, error) {
	var out []model.CourseAssignment
	for _, a := range m.assignments {
		if a.TenantID == tenantID && a.Active {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignmentID < out[j].AssignmentID })
	return out, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.CourseAssignment) error {
	stored, ok := m.assignments[assignment.AssignmentID]
	if !ok || stored.Version != assignment.Version {
		return errors.New("乐观锁冲突")
	}
	assignment.Version++
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

// ── Instance ──

type mockInstanceRepo struct {
	instances   map[string]*model.ScheduledTalkInstance
	completions *mockCompletionRepo
	assignments *mockAssignmentRepo
	seq         int
}

func (m *mockInstanceRepo) Create(_ context.Context, instance *model.ScheduledTalkInstance) error {
	// 模拟部分唯一索引：活跃分配同一时刻至多一个开放实例
	for _, existing := range m.instances {
		if existing.AssignmentID == instance.AssignmentID && existing.IsOpen() && instance.Status != model.InstanceCancelled && instance.Status != model.InstanceCompleted {
			return errors.New("唯一索引冲突: 分配已存在开放实例")
		}
	}
	if instance.InstanceID == "" {
		instance.InstanceID = uuid.New().String()
	}
	if instance.CreatedAt.IsZero() {
		m.seq++
		instance.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	}
	m.instances[instance.InstanceID] = instance
	return nil
}

func (m *mockInstanceRepo) GetByID(_ context.Context, tenantID, id string) (*model.ScheduledTalkInstance, error) {
	if i, ok := m.instances[id]; ok && i.TenantID == tenantID {
		copied := *i
		copied.Completion, _ = m.completions.GetByInstance(context.Background(), tenantID, id)
		copied.Assignment = m.assignments.assignments[i.AssignmentID]
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstanceRepo) GetOpenByAssignment(_ context.Context, assignmentID string) (*model.ScheduledTalkInstance, error) {
	for _, i := range m.instances {
		if i.AssignmentID == assignmentID && i.IsOpen() {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstanceRepo) ListByAssignment(_ context.Context, tenantID, assignmentID string) ([]model.ScheduledTalkInstance, error) {
	var out []model.ScheduledTalkInstance
	for _, i := range m.instances {
		if i.TenantID == tenantID && i.AssignmentID == assignmentID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].DueAt.Before(out[b].DueAt) })
	return out, nil
}

func (m *mockInstanceRepo) ListByStatus(_ context.Context, tenantID, status string) ([]model.ScheduledTalkInstance, error) {
	var out []model.ScheduledTalkInstance
	for _, i := range m.instances {
		if i.TenantID == tenantID && i.Status == status {
			copied := *i
			copied.Assignment = m.assignments.assignments[i.AssignmentID]
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].DueAt.Before(out[b].DueAt) })
	return out, nil
}

func (m *mockInstanceRepo) ListLatestByAssignment(_ context.Context, tenantID string) ([]model.ScheduledTalkInstance, error) {
	latest := map[string]*model.ScheduledTalkInstance{}
	for _, i := range m.instances {
		if i.TenantID != tenantID {
			continue
		}
		if cur, ok := latest[i.AssignmentID]; !ok || i.CreatedAt.After(cur.CreatedAt) {
			latest[i.AssignmentID] = i
		}
	}
	var out []model.ScheduledTalkInstance
	for _, i := range latest {
		copied := *i
		copied.Completion, _ = m.completions.GetByInstance(context.Background(), tenantID, i.InstanceID)
		out = append(out, copied)
	}
	return out, nil
}

func (m *mockInstanceRepo) CompareAndSetStatus(_ context.Context, instanceID string, from []string, to string) (bool, error) {
	i, ok := m.instances[instanceID]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if i.Status == f {
			i.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInstanceRepo) MarkOverdue(_ context.Context, tenantID string, now time.Time) (int64, error) {
	var count int64
	for _, i := range m.instances {
		if i.TenantID == tenantID && i.Status == model.InstancePending && i.DueAt.Before(now) {
			i.Status = model.InstanceOverdue
			count++
		}
	}
	return count, nil
}

// ── Completion ──

type mockCompletionRepo struct {
	records map[string]*model.CompletionRecord // instance_id → record
}

func (m *mockCompletionRepo) Create(_ context.Context, record *model.CompletionRecord) error {
	if _, exists := m.records[record.InstanceID]; exists {
		return errors.New("唯一索引冲突: 实例已存在完成记录")
	}
	if record.CompletionID == "" {
		record.CompletionID = uuid.New().String()
	}
	m.records[record.InstanceID] = record
	return nil
}

func (m *mockCompletionRepo) GetByInstance(_ context.Context, tenantID, instanceID string) (*model.CompletionRecord, error) {
	if r, ok := m.records[instanceID]; ok && r.TenantID == tenantID {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompletionRepo) ListByRange(_ context.Context, tenantID string, from, to time.Time) ([]model.CompletionRecord, error) {
	var out []model.CompletionRecord
	for _, r := range m.records {
		if r.TenantID == tenantID && !r.CompletedAt.Before(from) && !r.CompletedAt.After(to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// ── Supervisor ──

type mockSupervisorRepo struct {
	assignments map[string]*model.SupervisorAssignment
}

func (m *mockSupervisorRepo) Create(_ context.Context, assignment *model.SupervisorAssignment) error {
	if assignment.SupervisorAssignmentID == "" {
		assignment.SupervisorAssignmentID = uuid.New().String()
	}
	m.assignments[assignment.SupervisorAssignmentID] = assignment
	return nil
}

func (m *mockSupervisorRepo) GetByID(_ context.Context, tenantID, id string) (*model.SupervisorAssignment, error) {
	if a, ok := m.assignments[id]; ok && a.TenantID == tenantID {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSupervisorRepo) ExistsActivePair(_ context.Context, tenantID, supervisorID, operatorID string) (bool, error) {
	for _, a := range m.assignments {
		if a.TenantID == tenantID && a.SupervisorEmployeeID == supervisorID &&
			a.OperatorEmployeeID == operatorID && a.Active {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSupervisorRepo) Deactivate(_ context.Context, tenantID, id string) (bool, error) {
	if a, ok := m.assignments[id]; ok && a.TenantID == tenantID && a.Active {
		a.Active = false
		return true, nil
	}
	return false, nil
}

func (m *mockSupervisorRepo) ListBySupervisor(_ context.Context, tenantID, supervisorID string) ([]model.SupervisorAssignment, error) {
	var out []model.SupervisorAssignment
	for _, a := range m.assignments {
		if a.TenantID == tenantID && a.SupervisorEmployeeID == supervisorID && a.Active {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockSupervisorRepo) ListByOperator(_ context.Context, tenantID, operatorID string) ([]model.SupervisorAssignment, error) {
	var out []model.SupervisorAssignment
	for _, a := range m.assignments {
		if a.TenantID == tenantID && a.OperatorEmployeeID == operatorID && a.Active {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ── Lookup ──

type mockLookupRepo struct {
	categories map[string]*model.LookupCategory
	values     map[string]*model.LookupValue
	overrides  map[string]*model.TenantLookupOverride // tenant_id+value_id → override
}

func (m *mockLookupRepo) ListCategories(_ context.Context) ([]model.LookupCategory, error) {
	var out []model.LookupCategory
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *mockLookupRepo) GetCategoryByCode(_ context.Context, code string) (*model.LookupCategory, error) {
	for _, c := range m.categories {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLookupRepo) ListGlobalValues(_ context.Context, categoryID string) ([]model.LookupValue, error) {
	var out []model.LookupValue
	for _, v := range m.values {
		if v.CategoryID == categoryID && v.TenantID == nil && v.IsGlobal {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockLookupRepo) ListTenantValues(_ context.Context, categoryID, tenantID string) ([]model.LookupValue, error) {
	var out []model.LookupValue
	for _, v := range m.values {
		if v.CategoryID == categoryID && v.TenantID != nil && *v.TenantID == tenantID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockLookupRepo) CreateValue(_ context.Context, value *model.LookupValue) error {
	// 模拟部分唯一索引 uq_lookup_values_tenant_code
	if !value.IsGlobal && value.IsActive && value.TenantID != nil {
		for _, v := range m.values {
			if v.CategoryID == value.CategoryID && !v.IsGlobal && v.IsActive &&
				v.TenantID != nil && *v.TenantID == *value.TenantID && v.Code == value.Code {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if value.ValueID == "" {
		value.ValueID = uuid.New().String()
	}
	m.values[value.ValueID] = value
	return nil
}

func (m *mockLookupRepo) GetValueByID(_ context.Context, id string) (*model.LookupValue, error) {
	if v, ok := m.values[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLookupRepo) ListOverrides(_ context.Context, tenantID string) ([]model.TenantLookupOverride, error) {
	var out []model.TenantLookupOverride
	for _, o := range m.overrides {
		if o.TenantID == tenantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockLookupRepo) UpsertOverride(_ context.Context, override *model.TenantLookupOverride) error {
	key := override.TenantID + "|" + override.LookupValueID
	if existing, ok := m.overrides[key]; ok {
		existing.IsEnabled = override.IsEnabled
		existing.UpdatedBy = override.UpdatedBy
		return nil
	}
	if override.OverrideID == "" {
		override.OverrideID = uuid.New().String()
	}
	m.overrides[key] = override
	return nil
}

// ── Setting ──

type mockSettingRepo struct {
	settings map[string]*model.TenantSetting // tenant_id+key → setting
}

func (m *mockSettingRepo) Get(_ context.Context, tenantID, key string) (*model.TenantSetting, error) {
	if s, ok := m.settings[tenantID+"|"+key]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) Upsert(_ context.Context, setting *model.TenantSetting) error {
	m.settings[setting.TenantID+"|"+setting.Key] = setting
	return nil
}

func (m *mockSettingRepo) ListByTenant(_ context.Context, tenantID string) ([]model.TenantSetting, error) {
	var out []model.TenantSetting
	for _, s := range m.settings {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
