package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrStateInvariant 内部状态不变量被破坏（同一分配存在多个开放实例等）
// 出现即为程序缺陷，对外统一表现为服务器内部错误
var ErrStateInvariant = errors.New("内部状态不变量被破坏")
