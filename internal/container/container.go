package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-posts-api/config"
	"github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-posts-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Optional clients (redis, gcs, es, rabbit) stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	memStore    *memory.Store
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetMemoryStore(s *memory.Store)          { memStore = s }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetGCS(s *storage.Client)                { gcsClient = s }
func GetGCS() *storage.Client                 { return gcsClient }
func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager             { return jwtManager }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// Repositories returns the repositories backed by the PostgreSQL pool, or by
// the in-memory store when no pool was set.
func Repositories() (repository.UserRepository, repository.PostRepository, repository.VoteRepository) {
	if pgPool != nil {
		return pginfra.NewUserRepository(pgPool), pginfra.NewPostRepository(pgPool), pginfra.NewVoteRepository(pgPool)
	}
	if memStore == nil {
		memStore = memory.NewStore()
	}
	return memory.NewUserRepository(memStore), memory.NewPostRepository(memStore), memory.NewVoteRepository(memStore)
}
