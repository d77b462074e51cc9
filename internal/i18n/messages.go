package i18n

// Static translation tables. The uz table is the complete reference set; the
// others may lag behind it and fall back per key.
var messages = map[string]map[string]string{
	LocaleUz: {
		"auth.invalid_credentials":  "Telefon raqam yoki parol noto'g'ri",
		"auth.inactive_account":     "Hisobingiz faol emas",
		"auth.session_expired":      "Sessiya muddati tugadi, qaytadan kiring",
		"auth.wrong_code":           "Tasdiqlash kodi noto'g'ri",
		"auth.too_many_attempts":    "Urinishlar soni oshib ketdi, birozdan so'ng qayta urining",
		"auth.logged_out":           "Hisobdan chiqdingiz",
		"validation.phone":          "Telefon raqam noto'g'ri kiritilgan",
		"validation.password":       "Parol kamida 8 belgidan iborat bo'lib, harf va raqam o'z ichiga olishi kerak",
		"validation.password_match": "Parollar mos kelmadi",
		"catalog.not_found":         "E'lon topilmadi",
		"favorites.added":           "Saralanganlarga qo'shildi",
		"favorites.removed":         "Saralanganlardan olib tashlandi",
		"error.backend":             "Serverda xatolik yuz berdi",
	},
	LocaleRu: {
		"auth.invalid_credentials":  "Неверный номер телефона или пароль",
		"auth.inactive_account":     "Ваш аккаунт неактивен",
		"auth.session_expired":      "Сессия истекла, войдите заново",
		"auth.wrong_code":           "Неверный код подтверждения",
		"auth.too_many_attempts":    "Слишком много попыток, повторите позже",
		"auth.logged_out":           "Вы вышли из аккаунта",
		"validation.phone":          "Неверный номер телефона",
		"validation.password":       "Пароль должен содержать не менее 8 символов, буквы и цифры",
		"validation.password_match": "Пароли не совпадают",
		"catalog.not_found":         "Объявление не найдено",
		"favorites.added":           "Добавлено в избранное",
		"favorites.removed":         "Удалено из избранного",
		"error.backend":             "Ошибка сервера",
	},
	LocaleEn: {
		"auth.invalid_credentials":  "Wrong phone number or password",
		"auth.inactive_account":     "Your account is inactive",
		"auth.session_expired":      "Session expired, please sign in again",
		"auth.wrong_code":           "Wrong verification code",
		"auth.too_many_attempts":    "Too many attempts, try again later",
		"auth.logged_out":           "Signed out",
		"validation.phone":          "Invalid phone number",
		"validation.password":       "Password must be at least 8 characters with letters and digits",
		"validation.password_match": "Passwords do not match",
		"catalog.not_found":         "Listing not found",
		"favorites.added":           "Added to favorites",
		"favorites.removed":         "Removed from favorites",
		"error.backend":             "Server error",
	},
}
