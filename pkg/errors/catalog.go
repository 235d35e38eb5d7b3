package errors

func init() {
	RegisterService(ServiceCommon, "common")
	RegisterService(ServiceCore, "core")
	RegisterService(ServiceBootstrap, "bootstrap")
	RegisterService(ServiceInstaller, "installer")
	RegisterService(ServiceLocation, "location")
	RegisterService(ServiceEventBus, "eventbus")
}

// Common
var (
	ErrInternal = NewInternalError(ServiceCommon, 0).
			Message("Internal error", "内部错误").MustBuild()
	ErrInvalidConfig = NewConfigError(ServiceCommon, 1).
				Message("Invalid configuration", "配置无效").MustBuild()
)

// Core runtime
var (
	ErrInvalidCoreValue = NewRequestError(ServiceCore, 1).
				Message("Invalid core configuration value", "核心配置值无效").MustBuild()
	ErrInvalidTimeZone = NewRequestError(ServiceCore, 2).
				Message("Invalid time zone", "时区无效").MustBuild()
	ErrUnknownSeverity = NewRequestError(ServiceCore, 3).
				Message("Unknown log severity", "未知日志级别").MustBuild()
	ErrLogFileUnwritable = NewConfigError(ServiceCore, 4).
				Message("Unable to write error log", "无法写入错误日志").MustBuild()
	ErrInvalidEntityID = NewRequestError(ServiceCore, 5).
				Message("Invalid entity id", "实体 ID 无效").MustBuild()
)

// Bootstrap
var (
	ErrComponentNotFound = NewNotFoundError(ServiceBootstrap, 1).
				Message("Component not found", "组件不存在").MustBuild()
	ErrDependencyUnresolved = NewConflictError(ServiceBootstrap, 2).
				Message("Unable to resolve component dependencies", "无法解析组件依赖").MustBuild()
	ErrDependencyMissing = NewConflictError(ServiceBootstrap, 3).
				Message("Component dependencies not initialized", "组件依赖未初始化").MustBuild()
	ErrDuplicateComponent = NewConflictError(ServiceBootstrap, 4).
				Message("Component already registered", "组件已注册").MustBuild()
	ErrInvalidComponentID = NewRequestError(ServiceBootstrap, 1).
				Message("Invalid component id", "组件 ID 无效").MustBuild()
	ErrSetupFailed = NewInternalError(ServiceBootstrap, 1).
			Message("Component setup failed", "组件初始化失败").MustBuild()
	ErrSetupPanic = NewInternalError(ServiceBootstrap, 2).
			Message("Component setup panicked", "组件初始化异常").MustBuild()
	ErrCoreSetupFailed = NewInternalError(ServiceBootstrap, 3).
				Message("Core setup failed", "核心初始化失败").MustBuild()
	ErrConfigLoad = NewConfigError(ServiceBootstrap, 1).
			Message("Unable to load configuration file", "无法加载配置文件").MustBuild()
)

// Installer
var (
	ErrInvalidSpecifier = NewRequestError(ServiceInstaller, 1).
				Message("Invalid requirement specifier", "依赖说明符无效").MustBuild()
	ErrInstallFailed = NewInternalError(ServiceInstaller, 1).
				Message("Requirement installation failed", "依赖安装失败").MustBuild()
	ErrInstallTimeout = NewTimeoutError(ServiceInstaller, 1).
				Message("Requirement installation timed out", "依赖安装超时").MustBuild()
)

// Location
var (
	ErrLocationUnavailable = NewNetworkError(ServiceLocation, 1).
		Message("Location service unavailable", "定位服务不可用").MustBuild()
)

// Event bus
var (
	ErrBusClosed = NewInternalError(ServiceEventBus, 1).
			Message("Event bus closed", "事件总线已关闭").MustBuild()
	ErrPublishFailed = NewNetworkError(ServiceEventBus, 1).
				Message("Event publish failed", "事件发布失败").MustBuild()
)
