package errors

import "errors"

var (
	// ErrOptimisticLock 按 version 更新未命中：搬运工、科室或账号已被他人修改
	ErrOptimisticLock = errors.New("记录已被他人修改，请刷新后重试")

	// ErrLockBusy 另一实例正持有同一日期的告警生成锁
	ErrLockBusy = errors.New("同一日期的告警正在生成，请稍后重试")
)
