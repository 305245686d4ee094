// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the public home page.
	RouteRoot = "/"
	// RouteContact receives the public contact form.
	RouteContact = "/contact"
	// RouteHealth is the health check endpoint.
	RouteHealth = "/health"
	// RouteRobots and RouteSitemap serve crawler files.
	RouteRobots  = "/robots.txt"
	RouteSitemap = "/sitemap.xml"

	// RouteAdmin is the admin area prefix.
	RouteAdmin = "/admin"
	// RouteLogin is the admin login route.
	RouteLogin = "/admin/login"
	// RouteLogout is the admin logout route.
	RouteLogout = "/admin/logout"
	// RouteDashboard is the admin landing page.
	RouteDashboard = "/admin/dashboard"

	RouteContacts     = "/admin/contacts"
	RouteServices     = "/admin/services"
	RoutePricing      = "/admin/pricing"
	RouteTestimonials = "/admin/testimonials"
	RouteCompany      = "/admin/company"

	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteSuffixDelete is the suffix for delete confirmation routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixStatus is the suffix for contact status updates.
	RouteSuffixStatus = "/status"
)

// Template names.
const (
	templateHome             = "public/home"
	templateLogin            = "auth/login"
	templateDashboard        = "admin/dashboard"
	templateContacts         = "admin/contacts"
	templateServices         = "admin/services"
	templateServiceForm      = "admin/service_form"
	templatePricing          = "admin/pricing"
	templatePricingForm      = "admin/pricing_form"
	templateTestimonials     = "admin/testimonials"
	templateTestimonialForm  = "admin/testimonial_form"
	templateCompany          = "admin/company"
	templateConfirm          = "admin/confirm"
	formValueConfirm         = "confirm"
	formValueConfirmAccepted = "yes"
)

// Notification texts shown to users.
const (
	msgSessionExpired   = "Sua sessão expirou. Faça login novamente."
	msgInvalidForm      = "Dados do formulário inválidos"
	msgCheckFields      = "Verifique os campos destacados"
	msgBackendDown      = "Não foi possível conectar ao servidor. Tente novamente."
	msgRefreshFailed    = "Alteração salva, mas não foi possível atualizar a lista"
	msgNotFound         = "Registro não encontrado"
	msgLoginRequired    = "Preencha usuário e senha"
	msgLoginInvalid     = "Usuário ou senha inválidos"
	msgLoginFailed      = "Erro ao fazer login. Tente novamente."
	msgLoginLocked      = "Muitas tentativas de login. Tente novamente em %s."
	msgLoginWelcome     = "Bem-vindo, %s!"
	msgLoggedOut        = "Você saiu do painel"
	msgContactSent      = "Mensagem enviada! Entraremos em contato em breve."
	msgContactFailed    = "Erro ao enviar. Tente novamente ou entre em contato diretamente."
	msgDashboardPartial = "Alguns dados não puderam ser carregados"

	msgContactsLoadError   = "Erro ao carregar contatos"
	msgContactStatusSaved  = "Status do contato atualizado"
	msgContactStatusError  = "Erro ao atualizar status"
	msgContactInvalidState = "Status inválido"
	msgContactDeleted      = "Contato excluído com sucesso"
	msgContactDeleteError  = "Erro ao excluir contato"
	msgContactConfirm      = "Tem certeza que deseja excluir este contato?"

	msgCompanyLoadError = "Erro ao carregar informações da empresa"
	msgCompanySaved     = "Informações da empresa atualizadas"
	msgCompanySaveError = "Erro ao salvar informações da empresa"
)

// Page titles.
const (
	titleHome         = "TM Higienização - Higienização de Estofados em Bertioga"
	titleLogin        = "Login - TM Admin"
	titleDashboard    = "Dashboard"
	titleContacts     = "Contatos"
	titleServices     = "Serviços"
	titlePricing      = "Preços"
	titleTestimonials = "Depoimentos"
	titleCompany      = "Empresa"
)

// dashboardRecentContacts is how many leads the dashboard lists.
const dashboardRecentContacts = 5

// dashboardRecentEvents is how many log events the dashboard lists.
const dashboardRecentEvents = 10
