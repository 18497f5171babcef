package storage

// Storage 解码后的配置数据，MapStorage 是唯一的实现
type Storage interface {
	// Sub 按路径取子配置，"." 分隔层级，"[i]" 取数组元素
	// 例如 "litedb.database.engine"
	Sub(key string) Storage

	// ConvertTo 按 cfg tag 转换到 object 指向的结构体、map 或 slice
	ConvertTo(object any) error
}
