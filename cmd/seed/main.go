package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/sellercenter-backend/internal/categories"
	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/internal/users"
	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	"github.com/angelmondragon/sellercenter-backend/pkg/env"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/security"
)

type categorySeed struct {
	Name     string
	NameEn   string
	Children []categorySeed
}

var categoryTree = []categorySeed{
	{Name: "数码", NameEn: "Electronics", Children: []categorySeed{
		{Name: "手机", NameEn: "Phones", Children: []categorySeed{
			{Name: "智能手机", NameEn: "Smartphones"},
			{Name: "手机配件", NameEn: "Phone Accessories"},
		}},
		{Name: "电脑", NameEn: "Computers", Children: []categorySeed{
			{Name: "笔记本", NameEn: "Laptops"},
			{Name: "台式机", NameEn: "Desktops"},
		}},
	}},
	{Name: "服装", NameEn: "Apparel", Children: []categorySeed{
		{Name: "女装", NameEn: "Women", Children: []categorySeed{
			{Name: "连衣裙", NameEn: "Dresses"},
			{Name: "外套", NameEn: "Coats"},
		}},
		{Name: "男装", NameEn: "Men", Children: []categorySeed{
			{Name: "衬衫", NameEn: "Shirts"},
			{Name: "裤子", NameEn: "Trousers"},
		}},
	}},
	{Name: "家居", NameEn: "Home", Children: []categorySeed{
		{Name: "厨具", NameEn: "Kitchen", Children: []categorySeed{
			{Name: "锅具", NameEn: "Cookware"},
			{Name: "餐具", NameEn: "Tableware"},
		}},
	}},
}

const generatedPasswordLength = 12

type userSeed struct {
	Email    string
	Name     string
	Role     enums.UserRole
	Password string
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	domain := flag.String("domain", env.Get("SEED_EMAIL_DOMAIN", "sellercenter.local"), "email domain for seeded accounts")
	students := flag.Int("students", env.Int("SEED_STUDENT_COUNT", 5), "number of student accounts")
	adminPwd := flag.String("admin-password", env.Get("SEED_ADMIN_PASSWORD", ""), "admin password")
	teacherPwd := flag.String("teacher-password", env.Get("SEED_TEACHER_PASSWORD", ""), "teacher password")
	studentPwd := flag.String("student-password", env.Get("SEED_STUDENT_PASSWORD", ""), "shared student password")
	flag.Parse()

	skipped := map[string]bool{}
	for _, step := range env.List("SEED_SKIP", nil) {
		skipped[step] = true
	}

	cfg, err := config.Load()
	if err != nil {
		exitf("failed to load config: %v", err)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		exitf("failed to bootstrap database: %v", err)
	}
	defer dbClient.Close()

	if !skipped["categories"] {
		catSvc, err := categories.NewService(categories.NewRepository(dbClient.DB()), logg)
		if err != nil {
			exitf("failed to build category service: %v", err)
		}
		created, err := seedCategories(ctx, catSvc, nil, categoryTree)
		if err != nil {
			exitf("seed categories: %v", err)
		}
		logg.Info(logg.WithField(ctx, "created", created), "categories seeded")
	}

	if !skipped["users"] {
		hasher, err := security.NewHasher(cfg.Password)
		if err != nil {
			exitf("failed to build password hasher: %v", err)
		}
		seeds, err := buildUserSeeds(*domain, *students, *adminPwd, *teacherPwd, *studentPwd)
		if err != nil {
			exitf("build user seeds: %v", err)
		}
		userRepo := users.NewRepository(dbClient.DB())
		for _, seed := range seeds {
			created, generated, err := seedUser(ctx, userRepo, hasher, cfg.Quota, seed)
			if err != nil {
				exitf("seed user %s: %v", seed.Email, err)
			}
			fields := map[string]any{"email": seed.Email, "role": seed.Role, "created": created}
			if generated != "" {
				fields["generatedPassword"] = generated
			}
			logg.Info(logg.WithFields(ctx, fields), "user seeded")
		}
	}
}

// seedCategories ensures every node under parentID and returns how many were new.
func seedCategories(ctx context.Context, svc categories.Service, parentID *uuid.UUID, nodes []categorySeed) (int, error) {
	created := 0
	for i, node := range nodes {
		cat, isNew, err := svc.Ensure(ctx, categories.CreateCategoryRequest{
			Name:      node.Name,
			NameEn:    node.NameEn,
			ParentID:  parentID,
			SortOrder: i,
		})
		if err != nil {
			return created, fmt.Errorf("%s: %w", node.Name, err)
		}
		if isNew {
			created++
		}
		n, err := seedCategories(ctx, svc, &cat.ID, node.Children)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

func buildUserSeeds(domain string, students int, adminPwd, teacherPwd, studentPwd string) ([]userSeed, error) {
	if students < 0 {
		return nil, fmt.Errorf("student count must not be negative")
	}
	seeds := []userSeed{
		{Email: "admin@" + domain, Name: "Admin", Role: enums.UserRoleAdmin, Password: adminPwd},
		{Email: "teacher@" + domain, Name: "Teacher", Role: enums.UserRoleTeacher, Password: teacherPwd},
	}
	for i := 1; i <= students; i++ {
		seeds = append(seeds, userSeed{
			Email:    fmt.Sprintf("student%d@%s", i, domain),
			Name:     fmt.Sprintf("Student %d", i),
			Role:     enums.UserRoleStudent,
			Password: studentPwd,
		})
	}
	return seeds, nil
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// seedUser creates the account unless the email exists. When the seed has no
// password one is generated and returned so the operator can hand it out.
func seedUser(ctx context.Context, r *users.Repository, hasher passwordHasher, quota config.QuotaConfig, seed userSeed) (bool, string, error) {
	if _, err := r.FindByEmail(ctx, seed.Email); err == nil {
		return false, "", nil
	} else if !repo.IsNotFound(err) {
		return false, "", err
	}

	password, generated := seed.Password, ""
	if password == "" {
		var err error
		if generated, err = security.GenerateTempPassword(generatedPasswordLength); err != nil {
			return false, "", err
		}
		password = generated
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return false, "", err
	}
	_, err = r.Create(ctx, users.CreateUserDTO{
		Email:        seed.Email,
		Name:         seed.Name,
		PasswordHash: hash,
		Role:         seed.Role,
		ProductLimit: quota.DefaultProductLimit,
		DraftLimit:   quota.DefaultDraftLimit,
	})
	if err != nil {
		return false, "", err
	}
	return true, generated, nil
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
