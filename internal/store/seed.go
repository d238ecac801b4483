package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ptaero/aerosite/internal/auth"
)

// SeedParams controls initial data creation.
type SeedParams struct {
	AdminUsername string
	AdminPassword string
}

// Seed populates an empty database with a default admin account, the
// standard navigation, footer scaffolding, and interface strings. It is a
// no-op when users already exist.
func Seed(ctx context.Context, db *sql.DB, arg SeedParams, log *slog.Logger) error {
	q := New(db)

	n, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(arg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if _, err := q.CreateUser(ctx, CreateUserParams{
		Username:     arg.AdminUsername,
		PasswordHash: hash,
		IsAdmin:      true,
	}); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	log.Warn("created default admin account, change the password immediately",
		"username", arg.AdminUsername)

	if err := seedMenu(ctx, q); err != nil {
		return fmt.Errorf("seeding menu: %w", err)
	}
	if err := seedFooter(ctx, q); err != nil {
		return fmt.Errorf("seeding footer: %w", err)
	}
	if err := seedUIStrings(ctx, q); err != nil {
		return fmt.Errorf("seeding ui strings: %w", err)
	}
	if err := seedPages(ctx, q); err != nil {
		return fmt.Errorf("seeding pages: %w", err)
	}

	log.Info("database seeded")
	return nil
}

func seedMenu(ctx context.Context, q *Queries) error {
	items := []struct {
		label string
		url   string
		trs   map[string]string
	}{
		{"Beranda", "/", map[string]string{
			"en": "Home", "ar": "الرئيسية", "ja": "ホーム", "ko": "홈", "zh-cn": "首页"}},
		{"Tentang Kami", "/p/tentang-kami", map[string]string{
			"en": "About Us", "ar": "من نحن", "ja": "会社概要", "ko": "회사 소개", "zh-cn": "关于我们"}},
		{"Layanan", "/layanan", map[string]string{
			"en": "Services", "ar": "الخدمات", "ja": "サービス", "ko": "서비스", "zh-cn": "服务"}},
		{"Katalog", "/catalog", map[string]string{
			"en": "Catalog", "ar": "الكتالوج", "ja": "カタログ", "ko": "카탈로그", "zh-cn": "产品目录"}},
		{"Kontak", "/contact", map[string]string{
			"en": "Contact", "ar": "اتصل بنا", "ja": "お問い合わせ", "ko": "문의하기", "zh-cn": "联系我们"}},
	}

	for i, it := range items {
		id, err := q.CreateMenuItem(ctx, CreateMenuItemParams{
			Position:  MenuPositionHeader,
			Label:     it.label,
			URL:       it.url,
			SortOrder: int64(i),
			IsActive:  true,
		})
		if err != nil {
			return err
		}
		for lang, label := range it.trs {
			if err := q.UpsertMenuItemTr(ctx, UpsertMenuItemTrParams{
				ItemID: id, Lang: lang, Label: label,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedFooter(ctx context.Context, q *Queries) error {
	sectionID, err := q.CreateFooterSection(ctx, "Navigasi", 0, true)
	if err != nil {
		return err
	}
	if err := q.UpsertFooterSectionTr(ctx, sectionID, "en", "Navigation"); err != nil {
		return err
	}

	links := []struct {
		label string
		url   string
	}{
		{"Beranda", "/"},
		{"Layanan", "/layanan"},
		{"Katalog", "/catalog"},
		{"Kontak", "/contact"},
	}
	for i, l := range links {
		if _, err := q.CreateFooterLink(ctx, CreateFooterLinkParams{
			SectionID: sectionID,
			URL:       sql.NullString{String: l.url, Valid: true},
			IsActive:  true,
			SortOrder: int64(i),
			Label:     l.label,
		}); err != nil {
			return err
		}
	}
	return nil
}

func seedUIStrings(ctx context.Context, q *Queries) error {
	strings := map[string]map[string]string{
		"nav.cart": {
			"id": "Keranjang", "en": "Cart", "ar": "عربة التسوق",
			"ja": "カート", "ko": "장바구니", "zh-cn": "购物车"},
		"nav.login": {
			"id": "Masuk", "en": "Log In", "ar": "تسجيل الدخول",
			"ja": "ログイン", "ko": "로그인", "zh-cn": "登录"},
		"nav.logout": {
			"id": "Keluar", "en": "Log Out", "ar": "تسجيل الخروج",
			"ja": "ログアウト", "ko": "로그아웃", "zh-cn": "退出"},
		"nav.register": {
			"id": "Daftar", "en": "Register", "ar": "إنشاء حساب",
			"ja": "登録", "ko": "가입하기", "zh-cn": "注册"},
		"cart.checkout": {
			"id": "Checkout", "en": "Checkout", "ar": "إتمام الطلب",
			"ja": "チェックアウト", "ko": "결제하기", "zh-cn": "结算"},
		"cart.empty": {
			"id": "Keranjang Anda kosong.", "en": "Your cart is empty.",
			"ar": "عربة التسوق فارغة.", "ja": "カートは空です。",
			"ko": "장바구니가 비어 있습니다.", "zh-cn": "您的购物车是空的。"},
	}

	for key, byLang := range strings {
		for lang, val := range byLang {
			if err := q.UpsertUIString(ctx, key, lang, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedPages(ctx context.Context, q *Queries) error {
	_, err := q.CreatePage(ctx, CreatePageParams{
		Slug:        "tentang-kami",
		Template:    "about",
		IsPublished: true,
		Title:       "Tentang Kami",
		Body: sql.NullString{
			String: "<p>PT Teknologi Aeronautika Utama adalah penyedia solusi teknologi kedirgantaraan.</p>",
			Valid:  true,
		},
	})
	return err
}
