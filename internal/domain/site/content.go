package site

import (
	"fmt"

	"redimaq/internal/deeplink"
	"redimaq/internal/domain/config"
)

type SocialLink struct {
	Href  string
	Icon  string
	Label string
}

type FooterLink struct {
	Href  string
	Label string
}

func (l FooterLink) IsAnchor() bool { return IsAnchor(l.Href) }

type Category struct {
	Src   string
	Title string
	Alt   string
	Href  string
}

type Logo struct {
	Src string
	Alt string
}

type Benefit struct {
	Title string
	Text  string
}

// Contact is the contact block shown in every footer.
type Contact struct {
	Address     string
	Phone       string
	PhoneHref   string
	Email       string
	EmailHref   string
	MapEmbedURL string
}

// Messages pre-filled into the WhatsApp call-to-action links.
const (
	MsgGeneric       = "Olá! Gostaria de fazer um orçamento."
	MsgProblem       = "Olá! Tenho interesse nos seus móveis e gostaria de um orçamento."
	MsgSolutions     = "Olá! Gostaria de um orçamento para as soluções da Redimaq."
	MsgOffer         = "Olá! Vi a oferta no site e gostaria de solicitar um orçamento."
	MsgRepairHero    = "Olá! Gostaria de um orçamento para conserto de cadeiras."
	MsgRepairProblem = "Olá! Tenho uma cadeira para consertar e gostaria de um orçamento."
	MsgRepairCTA     = "Olá! Gostaria de solicitar um orçamento para conserto de cadeiras."
)

// Copy is the fixed presentation data derived from the contact config.
type Copy struct {
	contact config.ContactConfig
}

func NewCopy(c config.ContactConfig) Copy {
	return Copy{contact: c}
}

func (c Copy) WhatsApp(msg string) string {
	return deeplink.WhatsApp(c.contact.WhatsApp, msg)
}

func (c Copy) SocialLinks() []SocialLink {
	return []SocialLink{
		{Href: c.WhatsApp(MsgGeneric), Icon: "whatsapp", Label: "Link para o WhatsApp"},
		{Href: c.contact.Instagram, Icon: "instagram", Label: "Link para o Instagram"},
		{Href: c.contact.LinkedIn, Icon: "linkedin", Label: "Link para o LinkedIn"},
	}
}

func (c Copy) Contact(withEmail bool) Contact {
	out := Contact{
		Address:     c.contact.Address,
		Phone:       c.contact.Phone,
		PhoneHref:   deeplink.Tel(c.contact.Phone),
		MapEmbedURL: c.contact.MapEmbedURL,
	}
	if withEmail && c.contact.Email != "" {
		out.Email = c.contact.Email
		out.EmailHref = deeplink.Mailto(c.contact.Email)
	}
	return out
}

// HomeFooterLinks are used on the home page, where the anchors are local.
func HomeFooterLinks() []FooterLink {
	return []FooterLink{
		{Href: "#inicio", Label: "Início"},
		{Href: "#produtos", Label: "Produtos"},
		{Href: "#sobre-nos", Label: "Sobre Nós"},
		{Href: PathRepair, Label: "Consertos"},
		{Href: PathBlog, Label: "Blog"},
	}
}

// BlogFooterLinks point back into the home page.
func BlogFooterLinks() []FooterLink {
	return []FooterLink{
		{Href: "/#inicio", Label: "Início"},
		{Href: "/#produtos", Label: "Produtos"},
		{Href: "/#sobre-nos", Label: "Sobre Nós"},
		{Href: PathRepair, Label: "Consertos"},
		{Href: PathBlog, Label: "Blog"},
	}
}

func RepairFooterLinks() []FooterLink {
	return []FooterLink{
		{Href: "#inicio", Label: "Início"},
		{Href: "#beneficios", Label: "Benefícios"},
		{Href: "#galeria", Label: "Projetos"},
	}
}

func Categories() []Category {
	return []Category{
		{Src: "/images/mesa.webp", Title: "Mesas", Alt: "Mesa de escritório"},
		{Src: "/images/cadeira.webp", Title: "Cadeiras", Alt: "Cadeira de escritório ergonômica"},
		{Src: "/images/armario.webp", Title: "Armários", Alt: "Armário de escritório"},
		{Src: "/images/conserto.webp", Title: "Consertos", Alt: "Serviço de conserto de móveis de escritório", Href: PathRepair},
	}
}

const clientLogoCount = 11

func ClientLogos() []Logo {
	out := make([]Logo, 0, clientLogoCount)
	for i := 1; i <= clientLogoCount; i++ {
		out = append(out, Logo{
			Src: fmt.Sprintf("/images/marca_%d.webp", i),
			Alt: fmt.Sprintf("Logo do Cliente %d", i),
		})
	}
	return out
}

func HomeProblems() []string {
	return []string{
		"Espaço desorganizado e pouco funcional",
		"Falta de ergonomia e conforto para os colaboradores",
		"Dificuldade em encontrar móveis resistentes e com entrega rápida",
		"Projetos parados por falta de um fornecedor confiável",
	}
}

func HomeSolutions() []string {
	return []string{
		"Linha completa de móveis corporativos",
		"Alta qualidade e durabilidade",
		"Atendimento personalizado",
		"Entrega rápida e gratuita",
	}
}

func RepairRisks() []string {
	return []string{
		"Riscos de acidentes e problemas de saúde para a equipe.",
		"Impacto negativo na produtividade e no bem-estar.",
		"Desvalorização do patrimônio da sua empresa.",
		"Custos maiores com a substituição completa no futuro.",
	}
}

func RepairBenefits() []Benefit {
	return []Benefit{
		{Title: "Equipe mais confortável", Text: "Cadeiras restauradas reduzem reclamações e aumentam a produtividade."},
		{Title: "Ambiente mais profissional", Text: "Seu espaço transmite mais credibilidade com móveis em bom estado."},
		{Title: "Problemas resolvidos com agilidade", Text: "Você ganha tempo, evita dor de cabeça e tem garantia no serviço."},
	}
}

func RepairGallery() []string {
	return []string{"/images/conserto_4.webp", "/images/conserto_5.webp"}
}
