package utils

// 找出ID对应的数据，保持ids中的顺序。
// 不存在的ID记录到失败列表中。
func Find[T any](dataMap map[string]T, ids []string) (okData []T, failedIDs []string) {
	okData = make([]T, 0, len(ids))
	failedIDs = make([]string, 0, len(ids))
	for _, id := range ids {
		if d, ok := dataMap[id]; ok {
			okData = append(okData, d)
		} else {
			failedIDs = append(failedIDs, id)
		}
	}
	return
}
