package service

// versionVerdict 版本守卫判定结果
type versionVerdict int

const (
	// versionAccept 版本可接受，继续执行更新
	versionAccept versionVerdict = iota
	// versionStale 提交的版本落后于当前版本
	versionStale
	// versionSuspicious 提交的版本超前当前版本不止一步
	versionSuspicious
)

// checkVersion 对照当前已持久化版本判定提交版本。
// 未携带版本号为尽力而为模式，直接放行；携带时仅接受 current 与
// current+1 两个取值：current 是标准的读-改-写往返，current+1 兼容
// 把"期望写入后的版本"当作令牌提交的调用方。落后即判 stale，
// 超前超过一步说明调用方状态已紊乱，单独判 suspicious。
func checkVersion(current uint64, provided *uint64) versionVerdict {
	if provided == nil {
		return versionAccept
	}
	switch {
	case *provided == current || *provided == current+1:
		return versionAccept
	case *provided < current:
		return versionStale
	default:
		return versionSuspicious
	}
}
