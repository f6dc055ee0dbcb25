package kafka

import (
	"strconv"
	"time"
)

// canal 消息的变更类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// canal 行数据的值全部以字符串下发, 这里做宽松转换

func StrToString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func StrToUint64(v interface{}) uint64 {
	n, _ := strconv.ParseUint(StrToString(v), 10, 64)
	return n
}

func StrToInt(v interface{}) int {
	n, _ := strconv.Atoi(StrToString(v))
	return n
}

func StrToFloat64(v interface{}) float64 {
	f, _ := strconv.ParseFloat(StrToString(v), 64)
	return f
}

func StrToDateTime(v interface{}) time.Time {
	t, _ := time.ParseInLocation("2006-01-02 15:04:05", StrToString(v), time.Local)
	return t
}
