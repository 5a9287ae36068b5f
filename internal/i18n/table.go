package i18n

// entry is one key in both languages.
type entry struct{ ru, kz string }

var table = map[string]entry{
	"navigation.home":       {"Главная", "Басты бет"},
	"navigation.news":       {"Новости", "Жаңалықтар"},
	"navigation.teachers":   {"Учителя", "Мұғалімдер"},
	"navigation.birthdays":  {"Дни рождения", "Туған күндер"},
	"navigation.honorBoard": {"Доска почета", "Құрмет тақтасы"},
	"navigation.canteen":    {"Меню", "Асхана"},
	"navigation.schedule":   {"Расписание", "Кесте"},
	"navigation.classes":    {"Классы", "Сыныптар"},
	"navigation.sections":   {"Секции", "Үйірмелер"},
	"navigation.adminMode":  {"Режим администратора", "Әкімші режимі"},
	"navigation.adminExit":  {"Выйти из режима администратора", "Әкімші режимінен шығу"},

	"common.loading": {"Загрузка...", "Жүктелуде..."},
	"common.error":   {"Ошибка", "Қате"},
	"common.success": {"Успешно", "Сәтті"},
	"common.save":    {"Сохранить", "Сақтау"},
	"common.cancel":  {"Отмена", "Бас тарту"},
	"common.edit":    {"Редактировать", "Өңдеу"},
	"common.delete":  {"Удалить", "Жою"},
	"common.close":   {"Закрыть", "Жабу"},
	"common.yes":     {"Да", "Иә"},
	"common.no":      {"Нет", "Жоқ"},

	"school.name":        {"Название школы", "Мектеп атауы"},
	"school.address":     {"Адрес", "Мекенжай"},
	"school.description": {"Описание", "Сипаттама"},
	"school.email":       {"Email", "Email"},
	"school.phone":       {"Телефон", "Телефон"},

	"auth.loginRequired": {"Требуется вход в систему", "Жүйеге кіру қажет"},
	"auth.sessionEnded":  {"Сессия завершена, войдите снова", "Сессия аяқталды, қайта кіріңіз"},

	"admin.required":       {"Требуется режим администратора", "Әкімші режимі қажет"},
	"admin.sessionExpired": {"Сеанс администратора истек", "Әкімші сеансының мерзімі аяқталды"},
	"admin.entered":        {"Режим администратора включен", "Әкімші режимі қосылды"},

	"errors.unknown": {"Произошла неизвестная ошибка", "Белгісіз қате орын алды"},
}
