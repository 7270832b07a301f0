package jsonl

import (
	"errors"
	"path/filepath"

	"trading-dashboard-client/internal/config"
	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/util/timeutil"
)

// 日志文件名
const (
	batchesFile   = "batches.jsonl"
	snapshotsFile = "snapshots.jsonl"
)

// 记录类型
const (
	RecordBatch    = "batch"
	RecordSnapshot = "snapshot"
)

// Record 日志行外层结构
type Record struct {
	// Type 记录类型: batch / snapshot
	Type string `json:"type"`
	// TsMs 写入时间（毫秒）
	TsMs int64 `json:"ts_ms"`
	// Data 记录内容
	Data any `json:"data"`
}

// JournalStats 各日志文件的写入统计
type JournalStats struct {
	BatchesWritten   int64
	BatchesDropped   int64
	SnapshotsWritten int64
	SnapshotsDropped int64
}

// Journal 批次与快照日志
// 未启用的部分对应写入器为 nil，写入为空操作。
type Journal struct {
	batches   *Writer
	snapshots *Writer
}

// OpenJournal 按输出配置打开日志文件
// 参数 cfg: 输出配置，两类日志均未启用时返回的 Journal 不创建任何文件
func OpenJournal(cfg config.OutputConfig) (*Journal, error) {
	j := &Journal{}
	if cfg.BatchesEnabled {
		w, err := NewWriter(filepath.Join(cfg.Dir, batchesFile), cfg.BufferSize)
		if err != nil {
			return nil, err
		}
		j.batches = w
	}
	if cfg.SnapshotsEnabled {
		w, err := NewWriter(filepath.Join(cfg.Dir, snapshotsFile), cfg.BufferSize)
		if err != nil {
			_ = j.batches.Close()
			return nil, err
		}
		j.snapshots = w
	}
	return j, nil
}

// WriteBatch 记录一个已派发的批次
func (j *Journal) WriteBatch(b action.Batch) error {
	if j.batches == nil {
		return nil
	}
	return j.batches.Write(Record{Type: RecordBatch, TsMs: timeutil.NowMs(), Data: b})
}

// WriteSnapshot 记录一次 store 快照
func (j *Journal) WriteSnapshot(v any) error {
	if j.snapshots == nil {
		return nil
	}
	return j.snapshots.Write(Record{Type: RecordSnapshot, TsMs: timeutil.NowMs(), Data: v})
}

// SnapshotsEnabled 是否启用快照日志
func (j *Journal) SnapshotsEnabled() bool {
	return j.snapshots != nil
}

// Stats 获取写入统计，Close 之后调用可得到最终计数
func (j *Journal) Stats() JournalStats {
	var s JournalStats
	s.BatchesWritten, s.BatchesDropped = j.batches.Stats()
	s.SnapshotsWritten, s.SnapshotsDropped = j.snapshots.Stats()
	return s
}

// Close 关闭全部写入器
func (j *Journal) Close() error {
	return errors.Join(j.batches.Close(), j.snapshots.Close())
}
