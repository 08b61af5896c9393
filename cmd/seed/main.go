package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"inkwell/internal/config"
	docModels "inkwell/internal/domain/models/docsystem"
	vcsModels "inkwell/internal/domain/models/vcs"
	docsysSvc "inkwell/internal/domain/services/docsystem"
	vcsSvc "inkwell/internal/domain/services/vcs"
	"inkwell/internal/repository/postgres"
	postgresDocsys "inkwell/internal/repository/postgres/docsystem"
	postgresVCS "inkwell/internal/repository/postgres/vcs"
	serviceAuth "inkwell/internal/service/auth"
	serviceDocsys "inkwell/internal/service/docsystem"
	serviceVCS "inkwell/internal/service/vcs"
)

// Seeds a demo document with a feature branch, a couple of versions, and a
// staged AI suggestion. Intended for local development only.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.ApplyMigrations(ctx, pool, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	docRepo := postgresDocsys.NewDocumentRepository(repoConfig)
	branchRepo := postgresVCS.NewBranchRepository(repoConfig)
	versionRepo := postgresVCS.NewVersionRepository(repoConfig)
	changeRepo := postgresVCS.NewPendingChangeRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	authorizer := serviceAuth.NewOwnerBasedAuthorizer(docRepo)
	docService := serviceDocsys.NewDocumentService(docRepo, logger)
	branchService := serviceVCS.NewBranchService(branchRepo, authorizer, logger)
	versionService := serviceVCS.NewVersionService(versionRepo, branchRepo, txManager, authorizer, logger)
	changeService := serviceVCS.NewPendingChangeService(changeRepo, docRepo, branchRepo, versionRepo, txManager, authorizer, logger)

	const demoUser = "00000000-0000-0000-0000-000000000001"

	doc, err := docService.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
		UserID:     demoUser,
		Title:      "Field Notes",
		Content:    "# Field Notes\n\nFirst draft.\n",
		Visibility: docModels.VisibilityPrivate,
	})
	if err != nil {
		log.Fatalf("Failed to seed document: %v", err)
	}

	branch, err := branchService.CreateBranch(ctx, &vcsSvc.CreateBranchRequest{
		Document: doc.Ref(),
		UserID:   demoUser,
		Name:     "rewrite-intro",
		Creator:  vcsModels.Actor{Type: vcsModels.ActorUser, ID: demoUser},
	})
	if err != nil {
		log.Fatalf("Failed to seed branch: %v", err)
	}

	message := "Initial snapshot"
	if _, err := versionService.CommitVersion(ctx, &vcsSvc.CommitVersionRequest{
		BranchID:      branch.ID,
		UserID:        demoUser,
		Content:       doc.Content,
		CommitMessage: &message,
		Author:        vcsModels.Actor{Type: vcsModels.ActorUser, ID: demoUser},
	}); err != nil {
		log.Fatalf("Failed to seed version: %v", err)
	}

	diff, _ := json.Marshal(map[string]interface{}{
		"ops": []map[string]interface{}{
			{"op": "replace", "path": "/intro", "value": "A sharper opening paragraph."},
		},
	})
	if _, err := changeService.CreatePendingChange(ctx, &vcsSvc.CreatePendingChangeRequest{
		Document:    doc.Ref(),
		UserID:      demoUser,
		Changes:     diff,
		Description: "Tighten the introduction",
		ChangeType:  vcsModels.ChangeAISuggestion,
		Author:      vcsModels.Actor{Type: vcsModels.ActorAI, ID: "assistant-demo"},
	}); err != nil {
		log.Fatalf("Failed to seed pending change: %v", err)
	}

	logger.Info("seed complete",
		"document_id", doc.ID,
		"branch_id", branch.ID,
	)
}
