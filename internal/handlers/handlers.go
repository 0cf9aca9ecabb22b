package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/config"
	"elibrary/api/internal/middleware"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/service"
	"elibrary/api/internal/storage"
)

type HandlerSet struct {
	log zerolog.Logger
	cfg *config.AppConfig

	db    *pgxpool.Pool
	cache *redis.Client
	store *storage.ObjectStore

	users        *repository.UserRepository
	roles        *repository.RoleRepository
	permissions  *repository.PermissionRepository
	books        *repository.BookRepository
	thesis       *repository.ThesisRepository
	publications *repository.PublicationRepository
	journals     *repository.JournalRepository
	audios       *repository.AudioRepository
	videos       *repository.VideoRepository
	taxonomy     *repository.TaxonomyRepository
	downloads    *repository.DownloadRepository

	resolver      *service.AccessResolver
	authService   *service.AuthService
	uploadService *service.UploadService
	statsService  *service.StatsService
	searchService *service.SearchService
	counters      *service.CounterService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	permissions := repository.NewPermissionRepository(db)
	books := repository.NewBookRepository(db)
	thesis := repository.NewThesisRepository(db)
	publications := repository.NewPublicationRepository(db)
	journals := repository.NewJournalRepository(db)
	audios := repository.NewAudioRepository(db)
	videos := repository.NewVideoRepository(db)
	taxonomy := repository.NewTaxonomyRepository(db)
	downloads := repository.NewDownloadRepository(db)

	resolver := service.NewAccessResolver(roles, permissions)
	auth := service.NewAuthService(users, roles, resolver, cfg.Security)
	upload := service.NewUploadService(store, cfg.Storage, cfg.Upload, log)
	stats := service.NewStatsService(books, thesis, publications, journals, audios, videos, users, downloads, cache, log)
	search := service.NewSearchService(books, thesis, publications, journals, audios, videos)

	counters := service.NewCounterService(cache, log)
	counters.Register("views:book", books.AddViews)
	counters.Register("views:thesis", thesis.AddViews)
	counters.Register("views:publication", publications.AddViews)
	counters.Register("views:journal", journals.AddViews)
	counters.Register("views:video", videos.AddViews)
	counters.Register("plays:audio", audios.AddPlays)
	counters.Register("downloads:book", books.AddDownloads)
	counters.Register("downloads:thesis", thesis.AddDownloads)
	counters.Register("downloads:publication", publications.AddDownloads)
	counters.Register("downloads:journal", journals.AddDownloads)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		db:            db,
		cache:         cache,
		store:         store,
		users:         users,
		roles:         roles,
		permissions:   permissions,
		books:         books,
		thesis:        thesis,
		publications:  publications,
		journals:      journals,
		audios:        audios,
		videos:        videos,
		taxonomy:      taxonomy,
		downloads:     downloads,
		resolver:      resolver,
		authService:   auth,
		uploadService: upload,
		statsService:  stats,
		searchService: search,
		counters:      counters,
	}
}

// Counters exposes the counter service so the job scheduler can flush it.
func (h HandlerSet) Counters() *service.CounterService {
	return h.counters
}

// Taxonomy exposes the taxonomy repository for the nightly recount job.
func (h HandlerSet) Taxonomy() *repository.TaxonomyRepository {
	return h.taxonomy
}

func (h HandlerSet) Mount(router *gin.RouterGroup) {
	authed := middleware.Authenticate(h.cfg.Security, h.users, h.resolver)
	optional := middleware.OptionalAuth(h.cfg.Security, h.users, h.resolver)
	admin := middleware.RequireRoles("admin")
	staff := middleware.RequireRoles("admin", "librarian")

	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)

		me := auth.Group("", authed)
		me.GET("/profile", h.Profile)
		me.PUT("/profile", h.UpdateProfile)
		me.POST("/change-password", h.ChangePassword)
	}

	users := router.Group("/users", authed)
	{
		users.GET("", middleware.RequirePermission("view_users"), h.ListUsers)
		users.GET("/:id", middleware.RequirePermission("view_users"), h.GetUser)
		users.POST("", middleware.RequirePermission("create_users"), h.CreateUser)
		users.PUT("/:id", middleware.RequirePermission("update_users"), h.UpdateUser)
		users.DELETE("/:id", middleware.RequirePermission("delete_users"), h.DeleteUser)
		users.POST("/:id/roles", admin, h.SetUserRoles)
		users.POST("/:id/permissions", admin, h.SetUserPermissions)
	}

	roles := router.Group("/roles", authed, admin)
	{
		roles.GET("", h.ListRoles)
		roles.GET("/:id", h.GetRole)
		roles.POST("", h.CreateRole)
		roles.PUT("/:id", h.UpdateRole)
		roles.DELETE("/:id", h.DeleteRole)
		roles.POST("/:id/permissions", h.SetRolePermissions)
	}

	permissions := router.Group("/permissions", authed, admin)
	{
		permissions.GET("", h.ListPermissions)
		permissions.GET("/:id", h.GetPermission)
		permissions.POST("", h.CreatePermission)
		permissions.PUT("/:id", h.UpdatePermission)
		permissions.DELETE("/:id", h.DeletePermission)
	}

	books := router.Group("/books")
	{
		books.GET("", optional, h.ListBooks)
		books.GET("/:id", h.GetBook)
		books.POST("", authed, staff, h.CreateBook)
		books.PUT("/:id", authed, staff, h.UpdateBook)
		books.DELETE("/:id", authed, admin, h.DeleteBook)
		books.POST("/:id/download", authed, h.DownloadBook)
		books.GET("/:id/downloads", authed, staff, h.BookDownloads)
	}

	thesis := router.Group("/thesis")
	{
		thesis.GET("", optional, h.ListThesis)
		thesis.GET("/:id", h.GetThesis)
		thesis.POST("", authed, staff, h.CreateThesis)
		thesis.PUT("/:id", authed, staff, h.UpdateThesis)
		thesis.DELETE("/:id", authed, admin, h.DeleteThesis)
	}

	publications := router.Group("/publications")
	{
		publications.GET("", optional, h.ListPublications)
		publications.GET("/:id", h.GetPublication)
		publications.POST("", authed, staff, h.CreatePublication)
		publications.PUT("/:id", authed, staff, h.UpdatePublication)
		publications.DELETE("/:id", authed, admin, h.DeletePublication)
	}

	journals := router.Group("/journals")
	{
		journals.GET("", optional, h.ListJournals)
		journals.GET("/:id", h.GetJournal)
		journals.POST("", authed, staff, h.CreateJournal)
		journals.PUT("/:id", authed, staff, h.UpdateJournal)
		journals.DELETE("/:id", authed, admin, h.DeleteJournal)
	}

	audios := router.Group("/audios")
	{
		audios.GET("", optional, h.ListAudios)
		audios.GET("/:id", h.GetAudio)
		audios.POST("", authed, staff, h.CreateAudio)
		audios.PUT("/:id", authed, staff, h.UpdateAudio)
		audios.DELETE("/:id", authed, admin, h.DeleteAudio)
	}

	videos := router.Group("/videos")
	{
		videos.GET("", optional, h.ListVideos)
		videos.GET("/:id", h.GetVideo)
		videos.POST("", authed, staff, h.CreateVideo)
		videos.PUT("/:id", authed, staff, h.UpdateVideo)
		videos.DELETE("/:id", authed, admin, h.DeleteVideo)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", authed, staff, h.CreateCategory)
		categories.PUT("/:id", authed, staff, h.UpdateCategory)
		categories.DELETE("/:id", authed, admin, h.DeleteCategory)
	}

	authors := router.Group("/authors")
	{
		authors.GET("", h.ListAuthors)
		authors.GET("/:id", h.GetAuthor)
		authors.POST("", authed, staff, h.CreateAuthor)
		authors.PUT("/:id", authed, staff, h.UpdateAuthor)
		authors.DELETE("/:id", authed, admin, h.DeleteAuthor)
	}

	publishers := router.Group("/publishers")
	{
		publishers.GET("", h.ListPublishers)
		publishers.GET("/:id", h.GetPublisher)
		publishers.POST("", authed, staff, h.CreatePublisher)
		publishers.PUT("/:id", authed, staff, h.UpdatePublisher)
		publishers.DELETE("/:id", authed, admin, h.DeletePublisher)
	}

	departments := router.Group("/departments")
	{
		departments.GET("", h.ListDepartments)
		departments.GET("/:id", h.GetDepartment)
		departments.POST("", authed, staff, h.CreateDepartment)
		departments.PUT("/:id", authed, staff, h.UpdateDepartment)
		departments.DELETE("/:id", authed, admin, h.DeleteDepartment)
	}

	materialTypes := router.Group("/material-types")
	{
		materialTypes.GET("", h.ListMaterialTypes)
		materialTypes.GET("/:id", h.GetMaterialType)
		materialTypes.POST("", authed, staff, h.CreateMaterialType)
		materialTypes.PUT("/:id", authed, staff, h.UpdateMaterialType)
		materialTypes.DELETE("/:id", authed, admin, h.DeleteMaterialType)
	}

	router.GET("/search", h.Search)

	stats := router.Group("/stats")
	{
		stats.GET("/overview", h.StatsOverview)
		stats.GET("/popular", h.StatsPopular)
		stats.GET("/recent", h.StatsRecent)
	}

	uploads := router.Group("/uploads", authed, staff)
	{
		uploads.POST("", h.UploadFile)
		uploads.POST("/multiple", h.UploadFiles)
	}

	downloadLog := router.Group("/downloads", authed)
	{
		downloadLog.GET("", admin, h.ListDownloads)
		downloadLog.GET("/my", h.MyDownloads)
		downloadLog.GET("/stats", admin, h.DownloadStats)
	}
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid id")
	}
	return id, nil
}

// pageParams normalizes page/limit query values. Limit is capped so a
// single request cannot sweep a whole table.
func pageParams(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}
