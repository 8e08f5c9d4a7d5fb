package model

import "time"

// Now 统一时间精度：UTC + 微秒（PostgreSQL timestamptz 精度），保证游标值可以原样回查
func Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Normalize 将外部传入的时间规整为与存储一致的精度
func Normalize(t time.Time) time.Time { return t.UTC().Truncate(time.Microsecond) }
